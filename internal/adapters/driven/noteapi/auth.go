package noteapi

import (
	"context"
	"fmt"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure AuthAPI implements the interface.
var _ driven.AuthAPI = (*AuthAPI)(nil)

// AuthAPI provides authentication against the note server.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI creates an auth adapter over the shared client.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// userWire is the server's user representation.
type userWire struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// sessionEnvelope wraps login and register responses.
type sessionEnvelope struct {
	User         userWire `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

func (w userWire) toDomain() domain.User {
	return domain.User{ID: w.ID, Username: w.Username, Email: w.Email}
}

// Login exchanges email/password for a token pair.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*domain.User, *domain.Tokens, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var env sessionEnvelope
	if err := a.client.doJSON(ctx, "POST", "/api/auth/login", body, &env); err != nil {
		return nil, nil, err
	}
	user := env.User.toDomain()
	return &user, &domain.Tokens{Access: env.AccessToken, Refresh: env.RefreshToken}, nil
}

// Register creates an account and signs it in.
func (a *AuthAPI) Register(ctx context.Context, email, password, username string) (*domain.User, *domain.Tokens, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}{Email: email, Password: password, Username: username}

	var env sessionEnvelope
	if err := a.client.doJSON(ctx, "POST", "/api/auth/register", body, &env); err != nil {
		return nil, nil, err
	}
	user := env.User.toDomain()
	return &user, &domain.Tokens{Access: env.AccessToken, Refresh: env.RefreshToken}, nil
}

// Refresh exchanges the refresh token for a fresh access token.
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, err := a.client.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return access, nil
}

// Me returns the identity behind the current access token.
func (a *AuthAPI) Me(ctx context.Context) (*domain.User, error) {
	var env struct {
		User userWire `json:"user"`
	}
	if err := a.client.doJSON(ctx, "GET", "/api/auth/me", nil, &env); err != nil {
		return nil, err
	}
	user := env.User.toDomain()
	return &user, nil
}
