package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threalwinky/mown/internal/core/domain"
)

func TestAutosaveCoalescesEdits(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosave(func(context.Context) error {
		saves.Add(1)
		return nil
	}, true, WithAutosaveDelay(30*time.Millisecond))
	defer a.Close()

	for i := 0; i < 5; i++ {
		a.Edit()
	}
	assert.Equal(t, domain.SavePending, a.State())

	require.Eventually(t, func() bool {
		return a.State() == domain.SaveIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), saves.Load())
	assert.False(t, a.LastSaved().IsZero())
}

func TestAutosaveEditDuringFlightProducesOneFollowUp(t *testing.T) {
	var saves atomic.Int32
	release := make(chan struct{})
	a := NewAutosave(func(context.Context) error {
		if saves.Add(1) == 1 {
			<-release
		}
		return nil
	}, true, WithAutosaveDelay(10*time.Millisecond))
	defer a.Close()

	a.Edit()
	require.Eventually(t, func() bool {
		return a.State() == domain.SaveSaving
	}, time.Second, time.Millisecond)

	// Buffered mid-flight edits, however many, coalesce into one follow-up.
	a.Edit()
	a.Edit()
	close(release)

	require.Eventually(t, func() bool {
		return a.State() == domain.SaveIdle
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(2), saves.Load())
}

func TestAutosaveSaveNowShortCircuitsDebounce(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosave(func(context.Context) error {
		saves.Add(1)
		return nil
	}, true, WithAutosaveDelay(time.Hour))
	defer a.Close()

	a.Edit()
	require.NoError(t, a.SaveNow(context.Background()))
	assert.Equal(t, int32(1), saves.Load())

	// The long timer was cancelled; no second save sneaks in.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), saves.Load())
}

func TestAutosaveSaveNowJoinsInFlightSave(t *testing.T) {
	var saves atomic.Int32
	release := make(chan struct{})
	a := NewAutosave(func(context.Context) error {
		saves.Add(1)
		<-release
		return nil
	}, true, WithAutosaveDelay(5*time.Millisecond))
	defer a.Close()

	a.Edit()
	require.Eventually(t, func() bool {
		return a.State() == domain.SaveSaving
	}, time.Second, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- a.SaveNow(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), saves.Load())
}

func TestAutosaveSaveNowReportsError(t *testing.T) {
	saveErr := errors.New("boom")
	a := NewAutosave(func(context.Context) error {
		return saveErr
	}, true, WithAutosaveDelay(time.Hour))
	defer a.Close()

	err := a.SaveNow(context.Background())
	assert.ErrorIs(t, err, saveErr)
	assert.Equal(t, domain.SaveError, a.State())

	// The machine recovers: the next edit re-arms a save.
	a.Edit()
	assert.Equal(t, domain.SavePending, a.State())
}

func TestAutosaveDisabledNeverLeavesIdle(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosave(func(context.Context) error {
		saves.Add(1)
		return nil
	}, false, WithAutosaveDelay(5*time.Millisecond))
	defer a.Close()

	a.Edit()
	a.Edit()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, domain.SaveIdle, a.State())
	assert.Equal(t, int32(0), saves.Load())
	assert.ErrorIs(t, a.SaveNow(context.Background()), domain.ErrNoCapability)
}

func TestAutosaveCloseCancelsPendingSave(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosave(func(context.Context) error {
		saves.Add(1)
		return nil
	}, true, WithAutosaveDelay(10*time.Millisecond))

	a.Edit()
	a.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), saves.Load())
	assert.ErrorIs(t, a.SaveNow(context.Background()), domain.ErrSessionClosed)
}

func TestAutosaveStateListener(t *testing.T) {
	var states []domain.SaveState
	a := NewAutosave(func(context.Context) error { return nil }, true,
		WithAutosaveDelay(5*time.Millisecond),
		WithStateListener(func(s domain.SaveState) { states = append(states, s) }))

	a.Edit()
	require.Eventually(t, func() bool {
		return a.State() == domain.SaveIdle
	}, time.Second, time.Millisecond)
	a.Close()

	assert.Equal(t, []domain.SaveState{
		domain.SavePending, domain.SaveSaving, domain.SaveSaved, domain.SaveIdle,
	}, states)
}
