package services

import (
	"context"

	"github.com/google/uuid"
)

// External service interfaces that our domain services depend on

// TokenValidator resolves a bearer access token to the identity it was issued for.
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (*AuthUser, error)
}

// AuthUser is the identity behind a validated access token. Its ID matches
// the users table primary key.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
