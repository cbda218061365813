package memory

import (
	"sync"
	"time"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
type ConfigStore struct {
	mu        sync.RWMutex
	serverURL string
	tokens    domain.Tokens
	hasTokens bool
	user      domain.User
	hasUser   bool
	delay     time.Duration
	cooldown  time.Duration
}

// NewConfigStore creates a config store with library defaults.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		serverURL: "http://localhost:5000",
		delay:     2 * time.Second,
		cooldown:  150 * time.Millisecond,
	}
}

func (s *ConfigStore) ServerURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverURL
}

func (s *ConfigStore) SetServerURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverURL = url
	return nil
}

func (s *ConfigStore) AutosaveDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delay
}

func (s *ConfigStore) ScrollCooldown() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cooldown
}

// SetAutosaveDelay overrides the debounce window for tests.
func (s *ConfigStore) SetAutosaveDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetScrollCooldown overrides the suppression window for tests.
func (s *ConfigStore) SetScrollCooldown(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooldown = d
}

func (s *ConfigStore) Tokens() (domain.Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.hasTokens
}

func (s *ConfigStore) SetTokens(t domain.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
	s.hasTokens = true
	return nil
}

func (s *ConfigStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = domain.Tokens{}
	s.hasTokens = false
	return nil
}

func (s *ConfigStore) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.hasUser
}

func (s *ConfigStore) SetCurrentUser(u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.hasUser = true
	return nil
}

func (s *ConfigStore) ClearCurrentUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = domain.User{}
	s.hasUser = false
	return nil
}
