package auth

import (
	"testing"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthToken_RoundTrip(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	user := &models.User{
		ID:             uuid.New(),
		Login:          "owner",
		Role:           models.RoleOwner,
		OrganizationID: uuid.New(),
	}

	tokenString, err := at.CreateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	payload, err := at.VerifyToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, user.Role, payload.Role)
	assert.Equal(t, user.OrganizationID, payload.OrganizationID)
}

func TestAuthToken_WrongKey(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	tokenString, err := at.CreateToken(&models.User{
		ID:             uuid.New(),
		Role:           models.RoleCourier,
		OrganizationID: uuid.New(),
	})
	require.NoError(t, err)

	other := NewAuthToken([]byte("fedcba9876543210"))
	_, err = other.VerifyToken(tokenString)
	assert.Error(t, err)
}

func TestAuthToken_GarbageToken(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	_, err := at.VerifyToken("not.a.token")
	assert.Error(t, err)
}
