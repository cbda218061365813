package driving

import (
	"context"

	"github.com/threalwinky/mown/internal/core/domain"
)

// AuthService manages the viewer identity.
type AuthService interface {
	// Login signs in and persists the token pair.
	Login(ctx context.Context, email, password string) (*domain.User, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, email, password, username string) (*domain.User, error)

	// Logout discards the stored tokens.
	Logout(ctx context.Context) error

	// WhoAmI returns the current identity, or (nil, nil) when anonymous.
	WhoAmI(ctx context.Context) (*domain.User, error)
}
