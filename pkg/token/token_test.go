package token

import (
	"testing"
	"time"

	"github.com/securelife/insurance-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndValidate(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	signed, err := mgr.Generate(user)
	require.NoError(t, err)

	caller, err := mgr.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.UserID)
	assert.Equal(t, models.RoleAdmin, caller.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}

	signed, err := NewManager("secret-a", time.Hour).Generate(user)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Validate(signed)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}

	signed, err := mgr.Generate(user)
	require.NoError(t, err)

	_, err = mgr.Validate(signed)
	assert.Error(t, err)
}
