package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Configuration keys.
const (
	keyServerURL      = "server.url"
	keyAutosaveDelay  = "editor.autosave_delay_ms"
	keyScrollCooldown = "editor.scroll_cooldown_ms"
	keyAccessToken    = "auth.access_token"
	keyRefreshToken   = "auth.refresh_token"
	keyUserID         = "user.id"
	keyUserName       = "user.username"
	keyUserEmail      = "user.email"
)

// Defaults applied when the config file does not set a value.
const (
	defaultServerURL      = "http://localhost:5000"
	defaultAutosaveDelay  = 2 * time.Second
	defaultScrollCooldown = 150 * time.Millisecond
)

// ConfigStore is a file-based implementation of driven.ConfigStore using
// TOML. Configuration is stored in a TOML file within the mown config
// directory, including the token pair, so the file is written 0600.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.mown/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".mown")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// ServerURL returns the note server base URL.
func (s *ConfigStore) ServerURL() string {
	if url := s.getString(keyServerURL); url != "" {
		return url
	}
	return defaultServerURL
}

// SetServerURL persists the note server base URL.
func (s *ConfigStore) SetServerURL(url string) error {
	return s.set(map[string]any{keyServerURL: url})
}

// AutosaveDelay returns the autosave debounce window.
func (s *ConfigStore) AutosaveDelay() time.Duration {
	if ms := s.getInt(keyAutosaveDelay); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultAutosaveDelay
}

// ScrollCooldown returns the scroll sync suppression window.
func (s *ConfigStore) ScrollCooldown() time.Duration {
	if ms := s.getInt(keyScrollCooldown); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultScrollCooldown
}

// Tokens returns the stored token pair, if signed in.
func (s *ConfigStore) Tokens() (domain.Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	access, _ := s.data[keyAccessToken].(string)
	refresh, _ := s.data[keyRefreshToken].(string)
	if access == "" && refresh == "" {
		return domain.Tokens{}, false
	}
	return domain.Tokens{Access: access, Refresh: refresh}, true
}

// SetTokens persists the token pair.
func (s *ConfigStore) SetTokens(t domain.Tokens) error {
	return s.set(map[string]any{
		keyAccessToken:  t.Access,
		keyRefreshToken: t.Refresh,
	})
}

// ClearTokens removes the stored token pair.
func (s *ConfigStore) ClearTokens() error {
	return s.unset(keyAccessToken, keyRefreshToken)
}

// CurrentUser returns the cached signed-in identity, if any.
func (s *ConfigStore) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, _ := s.data[keyUserID].(string)
	if id == "" {
		return domain.User{}, false
	}
	username, _ := s.data[keyUserName].(string)
	email, _ := s.data[keyUserEmail].(string)
	return domain.User{ID: id, Username: username, Email: email}, true
}

// SetCurrentUser caches the signed-in identity.
func (s *ConfigStore) SetCurrentUser(u domain.User) error {
	return s.set(map[string]any{
		keyUserID:    u.ID,
		keyUserName:  u.Username,
		keyUserEmail: u.Email,
	})
}

// ClearCurrentUser removes the cached identity.
func (s *ConfigStore) ClearCurrentUser() error {
	return s.unset(keyUserID, keyUserName, keyUserEmail)
}

func (s *ConfigStore) getString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	str, _ := s.data[key].(string)
	return str
}

func (s *ConfigStore) getInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// TOML integers are parsed as int64.
	switch v := s.data[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// set stores values and persists immediately.
func (s *ConfigStore) set(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range values {
		s.data[key] = value
	}
	return s.save()
}

// unset removes keys and persists immediately.
func (s *ConfigStore) unset(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nestMap(s.data))
	if err != nil {
		return err
	}

	// The file holds credentials; keep permissions restricted.
	return os.WriteFile(s.filePath, data, 0600)
}

// load reads configuration from the TOML file.
func (s *ConfigStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// nestMap is the inverse of flattenMap, turning dot-notation keys back
// into TOML tables so the file stays human-editable.
func nestMap(flat map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flat {
		parts := splitKey(key)
		node := result
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	return result
}

func splitKey(key string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			parts = append(parts, key[start:i])
			start = i + 1
		}
	}
	return append(parts, key[start:])
}
