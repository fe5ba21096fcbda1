package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenDuration = 24 * time.Hour

// tokenClaims is JWT claims carrying caller identity
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID         string `json:"uid"`
	Role           string `json:"role"`
	OrganizationID string `json:"org"`
}

// AuthToken creates and verifies JWT tokens
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

// CreateToken creates signed token for user
func (at *AuthToken) CreateToken(user *models.User) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:         user.ID.String(),
		Role:           user.Role,
		OrganizationID: user.OrganizationID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(at.key)
}

// VerifyToken verifies token string and extracts payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return at.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("parse organization id: %w", err)
	}
	if !models.IsStaffRole(claims.Role) {
		return nil, models.ErrInvalidRole
	}

	return &models.TokenPayload{
		UserID:         userID,
		Role:           claims.Role,
		OrganizationID: orgID,
	}, nil
}
