package services

import (
	"context"
	"sync"
	"time"

	"github.com/threalwinky/mown/internal/core/domain"
)

// Autosave defaults. Both are tunable per session; the coalescing and
// single-flight guarantees hold for any positive values.
const (
	DefaultAutosaveDelay = 2 * time.Second
	DefaultSaveTimeout   = 15 * time.Second
)

// SaveFunc performs one remote save of the owning session's current
// buffer. It must be safe to call from a background goroutine.
type SaveFunc func(ctx context.Context) error

// Autosave turns a stream of local edits into a minimal stream of remote
// writes. It is an explicit finite-state machine (idle, pending, saving,
// saved, error) rather than ad-hoc flags, so "timer fired" and "edit
// arrived" can never race into a second in-flight save.
//
// Each instance is owned by exactly one editor session and starts at idle.
type Autosave struct {
	save    SaveFunc
	enabled bool
	delay   time.Duration
	timeout time.Duration
	onState func(domain.SaveState)

	mu        sync.Mutex
	state     domain.SaveState
	timer     *time.Timer
	dirty     bool
	closed    bool
	lastSaved time.Time
	waiters   []chan error
}

// AutosaveOption configures an Autosave.
type AutosaveOption func(*Autosave)

// WithAutosaveDelay sets the debounce window between the last edit and
// the save attempt.
func WithAutosaveDelay(d time.Duration) AutosaveOption {
	return func(a *Autosave) {
		if d > 0 {
			a.delay = d
		}
	}
}

// WithSaveTimeout bounds how long a save request may stay in flight
// before it is treated as failed.
func WithSaveTimeout(d time.Duration) AutosaveOption {
	return func(a *Autosave) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithStateListener registers a callback invoked on every state
// transition. The callback runs with internal locks held and must not
// call back into the Autosave.
func WithStateListener(f func(domain.SaveState)) AutosaveOption {
	return func(a *Autosave) { a.onState = f }
}

// NewAutosave creates the state machine for one session. When enabled is
// false (the viewer has no edit capability) the machine never leaves
// idle: autosave is entirely disabled for non-editors.
func NewAutosave(save SaveFunc, enabled bool, opts ...AutosaveOption) *Autosave {
	a := &Autosave{
		save:    save,
		enabled: enabled,
		delay:   DefaultAutosaveDelay,
		timeout: DefaultSaveTimeout,
		state:   domain.SaveIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current machine state.
func (a *Autosave) State() domain.SaveState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// LastSaved returns when the last save succeeded, zero if never.
func (a *Autosave) LastSaved() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved
}

// Enabled reports whether edits can trigger saves.
func (a *Autosave) Enabled() bool {
	return a.enabled
}

// Edit records a local edit. Within the debounce window consecutive edits
// coalesce into a single save (last edit wins). An edit arriving while a
// save is in flight is buffered and produces exactly one follow-up save
// once the flight resolves.
func (a *Autosave) Edit() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled || a.closed {
		return
	}

	switch a.state {
	case domain.SaveSaving:
		a.dirty = true
	case domain.SavePending:
		a.armTimerLocked()
	default: // idle, saved, error
		a.setStateLocked(domain.SavePending)
		a.armTimerLocked()
	}
}

// SaveNow short-circuits the debounce: from idle or pending it starts a
// save immediately (cancelling any pending timer) and from saving it
// joins the in-flight request. It blocks until the save resolves or ctx
// is done, and returns the outcome for UI feedback.
func (a *Autosave) SaveNow(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if !a.enabled {
		a.mu.Unlock()
		return domain.ErrNoCapability
	}

	ch := make(chan error, 1)
	a.waiters = append(a.waiters, ch)
	if a.state != domain.SaveSaving {
		if a.timer != nil {
			a.timer.Stop()
		}
		a.beginSaveLocked()
	}
	a.mu.Unlock()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any pending debounce timer and detaches the machine. An
// in-flight save is allowed to finish; its result is discarded.
func (a *Autosave) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
}

// armTimerLocked starts or restarts the debounce timer.
func (a *Autosave) armTimerLocked() {
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.fire)
		return
	}
	a.timer.Reset(a.delay)
}

// fire is the debounce timer callback.
func (a *Autosave) fire() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A manual save or Close may have won the race with the timer.
	if a.closed || a.state != domain.SavePending {
		return
	}
	a.beginSaveLocked()
}

// beginSaveLocked transitions to saving and launches the single flight.
func (a *Autosave) beginSaveLocked() {
	a.setStateLocked(domain.SaveSaving)
	go a.runSave()
}

// runSave executes one save request and applies the resolution.
func (a *Autosave) runSave() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	err := a.save(ctx)
	cancel()

	a.mu.Lock()
	waiters := a.waiters
	a.waiters = nil

	if a.closed {
		// Session is gone; the result is discarded.
		a.mu.Unlock()
		notifyWaiters(waiters, err)
		return
	}

	if err != nil {
		a.setStateLocked(domain.SaveError)
	} else {
		a.lastSaved = time.Now()
		a.setStateLocked(domain.SaveSaved)
	}

	switch {
	case a.dirty:
		// A buffered edit arrived mid-flight: exactly one follow-up save.
		a.dirty = false
		a.setStateLocked(domain.SavePending)
		a.armTimerLocked()
	case err == nil:
		a.setStateLocked(domain.SaveIdle)
	}
	a.mu.Unlock()

	notifyWaiters(waiters, err)
}

func (a *Autosave) setStateLocked(s domain.SaveState) {
	a.state = s
	if a.onState != nil {
		a.onState(s)
	}
}

func notifyWaiters(waiters []chan error, err error) {
	for _, ch := range waiters {
		ch <- err
	}
}
