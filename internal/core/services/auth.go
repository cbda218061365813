package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/logger"
)

// Ensure Auth implements the interface.
var _ driving.AuthService = (*Auth)(nil)

// Auth manages the viewer identity: it wraps the auth collaborator and
// persists the token pair and cached identity in the config store.
type Auth struct {
	api    driven.AuthAPI
	config driven.ConfigStore
}

// NewAuth creates the auth service.
func NewAuth(api driven.AuthAPI, config driven.ConfigStore) *Auth {
	return &Auth{api: api, config: config}
}

// Login signs in and persists the token pair.
func (a *Auth) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, tokens, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.config.SetTokens(*tokens); err != nil {
		return nil, fmt.Errorf("persisting tokens: %w", err)
	}
	if err := a.config.SetCurrentUser(*user); err != nil {
		return nil, fmt.Errorf("caching identity: %w", err)
	}
	return user, nil
}

// Register creates an account and signs it in.
func (a *Auth) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	user, tokens, err := a.api.Register(ctx, email, password, username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := a.config.SetTokens(*tokens); err != nil {
		return nil, fmt.Errorf("persisting tokens: %w", err)
	}
	if err := a.config.SetCurrentUser(*user); err != nil {
		return nil, fmt.Errorf("caching identity: %w", err)
	}
	return user, nil
}

// Logout discards the stored tokens and cached identity. The server is
// stateless about sessions; discarding the tokens is the whole action.
func (a *Auth) Logout(_ context.Context) error {
	if err := a.config.ClearTokens(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return a.config.ClearCurrentUser()
}

// WhoAmI returns the current identity, or (nil, nil) when anonymous.
// A transient failure falls back to the cached identity so the editor
// can still resolve capability offline.
func (a *Auth) WhoAmI(ctx context.Context) (*domain.User, error) {
	if _, ok := a.config.Tokens(); !ok {
		return nil, nil
	}

	user, err := a.api.Me(ctx)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrForbidden) {
		return nil, nil
	}
	if cached, ok := a.config.CurrentUser(); ok {
		logger.Warn("auth: identity lookup failed, using cached identity: %v", err)
		return &cached, nil
	}
	return nil, err
}
