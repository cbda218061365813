package driven

import (
	"context"

	"github.com/threalwinky/mown/internal/core/domain"
)

// AuthAPI is the authentication collaborator: a black box that exchanges
// credentials for tokens and answers "who is the current viewer".
type AuthAPI interface {
	// Login exchanges email/password for a token pair.
	Login(ctx context.Context, email, password string) (*domain.User, *domain.Tokens, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, email, password, username string) (*domain.User, *domain.Tokens, error)

	// Refresh exchanges the refresh token for a fresh access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Me returns the identity behind the current access token.
	// Returns domain.ErrUnauthenticated when no valid token is held.
	Me(ctx context.Context) (*domain.User, error)
}

// TokenStore persists the token pair between invocations.
type TokenStore interface {
	Tokens() (domain.Tokens, bool)
	SetTokens(domain.Tokens) error
	ClearTokens() error
}
