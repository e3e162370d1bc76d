package supabase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	supabase "github.com/nedpals/supabase-go"
	"github.com/propertyease/propertyease/internal/domain/services"
)

type AuthService struct {
	client *supabase.Client
}

type Config struct {
	URL    string
	APIKey string
}

func NewAuthService(config Config) (*AuthService, error) {
	client := supabase.CreateClient(config.URL, config.APIKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Supabase client")
	}

	return &AuthService{
		client: client,
	}, nil
}

// ValidateToken asks Supabase Auth who the token belongs to.
func (s *AuthService) ValidateToken(ctx context.Context, accessToken string) (*services.AuthUser, error) {
	user, err := s.client.Auth.User(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	return convertToAuthUser(user)
}

func convertToAuthUser(user *supabase.User) (*services.AuthUser, error) {
	if user == nil {
		return nil, fmt.Errorf("token has no associated user")
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID %q: %w", user.ID, err)
	}

	return &services.AuthUser{
		ID:    userID,
		Email: user.Email,
	}, nil
}
