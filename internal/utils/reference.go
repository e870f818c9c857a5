// Package utils contains small helpers shared across services.
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GeneratePolicyID produces a policy reference of the form POL-2025-483920.
// The six digit suffix is random, so callers must be prepared to retry on a
// uniqueness conflict.
func GeneratePolicyID() string {
	return reference("POL")
}

// GenerateClaimID produces a claim reference of the form CLM-2025-112764
func GenerateClaimID() string {
	return reference("CLM")
}

func reference(prefix string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("reference generation: %v", err))
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, time.Now().Year(), n.Int64()+100000)
}
