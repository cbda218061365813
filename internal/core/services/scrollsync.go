package services

import (
	"math"
	"sync"
	"time"
)

// DefaultScrollCooldown is the suppression window after a programmatic
// scroll. Tunable; the no-oscillation guarantee does not depend on it.
const DefaultScrollCooldown = 150 * time.Millisecond

// Pane is a scroll-position source: one of the two coupled views.
// MaxScrollOffset is content height minus viewport height.
type Pane interface {
	ScrollOffset() int
	MaxScrollOffset() int
	SetScrollOffset(offset int)
}

// Side identifies one of the two coupled panes.
type Side int

const (
	// PanePrimary is the raw markdown editor pane.
	PanePrimary Side = iota
	// PaneSecondary is the rendered preview pane.
	PaneSecondary
)

func (s Side) other() Side {
	if s == PanePrimary {
		return PaneSecondary
	}
	return PanePrimary
}

// ScrollSync couples two independently scrollable panes proportionally.
// After driving the opposite pane programmatically it suppresses that
// pane's own scroll handler for a cooldown window, breaking the A→B→A
// feedback oscillation. A new event from the driving side while the
// update is still settling re-arms the cooldown rather than queueing.
type ScrollSync struct {
	mu              sync.Mutex
	panes           [2]Pane
	enabled         bool
	cooldown        time.Duration
	now             func() time.Time
	suppressedUntil [2]time.Time
}

// ScrollSyncOption configures a ScrollSync.
type ScrollSyncOption func(*ScrollSync)

// WithScrollCooldown sets the suppression window duration.
func WithScrollCooldown(d time.Duration) ScrollSyncOption {
	return func(s *ScrollSync) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) ScrollSyncOption {
	return func(s *ScrollSync) { s.now = now }
}

// NewScrollSync creates the coupling between two panes. Either pane may
// be nil (single-pane layout); the engine is inert until both are set.
func NewScrollSync(primary, secondary Pane, opts ...ScrollSyncOption) *ScrollSync {
	s := &ScrollSync{
		panes:    [2]Pane{primary, secondary},
		enabled:  true,
		cooldown: DefaultScrollCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEnabled toggles coupling. Disabling stops all coupling but leaves
// each pane's scroll position untouched.
func (s *ScrollSync) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether coupling is active.
func (s *ScrollSync) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetPane replaces a pane, or detaches it with nil when that view is
// hidden. With a pane missing the engine takes no action.
func (s *ScrollSync) SetPane(side Side, pane Pane) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panes[side] = pane
}

// OnScroll handles a scroll event from one side. While the side is inside
// its suppression window (it was just driven programmatically) the event
// is ignored; otherwise the opposite pane is set to the same scroll
// ratio and suppressed for the cooldown window.
func (s *ScrollSync) OnScroll(from Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}

	driving := s.panes[from]
	driven := s.panes[from.other()]
	if driving == nil || driven == nil {
		return
	}

	now := s.now()
	if now.Before(s.suppressedUntil[from]) {
		return
	}

	maxOffset := driving.MaxScrollOffset()
	if maxOffset <= 0 {
		// Nothing to sync against.
		return
	}

	ratio := float64(driving.ScrollOffset()) / float64(maxOffset)
	target := int(math.Round(ratio * float64(driven.MaxScrollOffset())))
	driven.SetScrollOffset(target)

	// Re-armed on every driving event, so a stream of scrolls keeps the
	// driven side suppressed instead of queueing corrections.
	s.suppressedUntil[from.other()] = now.Add(s.cooldown)
}
