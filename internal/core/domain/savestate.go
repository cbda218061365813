package domain

// SaveState is the autosave machine state for one open editor session.
// A fresh session always starts at SaveIdle; the state is never persisted.
type SaveState int

const (
	// SaveIdle means no unsaved edits and no save in flight.
	SaveIdle SaveState = iota
	// SavePending means an edit arrived and the debounce timer is running.
	SavePending
	// SaveSaving means exactly one save request is in flight.
	SaveSaving
	// SaveSaved means the last save succeeded; transient before SaveIdle.
	SaveSaved
	// SaveError means the last save failed; the next edit retries.
	SaveError
)

// String returns a display name for status bars and logs.
func (s SaveState) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SavePending:
		return "pending"
	case SaveSaving:
		return "saving"
	case SaveSaved:
		return "saved"
	case SaveError:
		return "save failed"
	default:
		return "unknown"
	}
}
