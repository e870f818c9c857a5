package utils

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePolicyID(t *testing.T) {
	pattern := regexp.MustCompile(fmt.Sprintf(`^POL-%d-\d{6}$`, time.Now().Year()))
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, GeneratePolicyID())
	}
}

func TestGenerateClaimID(t *testing.T) {
	pattern := regexp.MustCompile(fmt.Sprintf(`^CLM-%d-\d{6}$`, time.Now().Year()))
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, GenerateClaimID())
	}
}
