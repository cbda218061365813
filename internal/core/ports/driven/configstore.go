package driven

import (
	"time"

	"github.com/threalwinky/mown/internal/core/domain"
)

// ConfigStore persists client configuration between runs: the server URL,
// the token pair, and editor tuning. Setters persist immediately.
type ConfigStore interface {
	TokenStore

	// ServerURL returns the base URL of the note server.
	ServerURL() string
	SetServerURL(url string) error

	// AutosaveDelay is the debounce window between the last edit and the
	// save attempt. Tunable; coalescing semantics do not depend on it.
	AutosaveDelay() time.Duration

	// ScrollCooldown is the suppression window after a programmatic
	// scroll of the opposite pane.
	ScrollCooldown() time.Duration

	// CurrentUser returns the cached identity of the signed-in user, if
	// any, so capability can be derived without a round trip.
	CurrentUser() (domain.User, bool)
	SetCurrentUser(domain.User) error
	ClearCurrentUser() error
}
