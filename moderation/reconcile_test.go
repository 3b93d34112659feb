package moderation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileReappliesLostTimeout(t *testing.T) {
	store := newTestStore(t)
	exec := &fakeExecutor{}
	r := NewReconciler(store, exec, nil)

	until := time.Now().Add(time.Hour)
	require.NoError(t, store.SaveTimeout("g1", "u1", until, "spam"))

	corrections, err := r.Reconcile("g1", "u1", LiveState{})
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "timeout reapplied from ledger", corrections[0].Description)
	assert.NoError(t, corrections[0].Err)
	assert.Equal(t, []string{"timeout"}, exec.calls)
}

func TestReconcileIgnoresExpiredLedgerTimeout(t *testing.T) {
	store := newTestStore(t)
	exec := &fakeExecutor{}
	r := NewReconciler(store, exec, nil)

	require.NoError(t, store.SaveTimeout("g1", "u1", time.Now().Add(-time.Hour), "spam"))

	corrections, err := r.Reconcile("g1", "u1", LiveState{})
	require.NoError(t, err)
	assert.Empty(t, corrections)
	assert.Empty(t, exec.calls)
}

func TestReconcileAdoptsLiveTimeout(t *testing.T) {
	store := newTestStore(t)
	exec := &fakeExecutor{}
	r := NewReconciler(store, exec, nil)

	liveUntil := time.Now().Add(30 * time.Minute)
	corrections, err := r.Reconcile("g1", "u1", LiveState{TimedOutUntil: &liveUntil})
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "timeout adopted from platform", corrections[0].Description)

	// Adopted into the ledger, never re-applied remotely.
	assert.Empty(t, exec.calls)
	record, err := store.GetPunishment("g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.ActiveTimeoutUntil)
	assert.Equal(t, liveUntil.Unix(), *record.ActiveTimeoutUntil)
}

func TestReconcileReappliesLostBanEveryPass(t *testing.T) {
	store := newTestStore(t)
	exec := &fakeExecutor{}
	notifier := &recordingNotifier{}
	r := NewReconciler(store, exec, notifier)

	require.NoError(t, store.SaveBan("g1", "u1", "raid"))

	corrections, err := r.Reconcile("g1", "u1", LiveState{Banned: false})
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "ban reapplied from ledger", corrections[0].Description)

	// Live state unchanged: the same correction is issued again. Expected,
	// since live-only ban state is never pulled into the ledger.
	corrections, err = r.Reconcile("g1", "u1", LiveState{Banned: false})
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "ban reapplied from ledger", corrections[0].Description)

	assert.Equal(t, []string{"ban", "ban"}, exec.calls)
	require.Len(t, notifier.events, 2)
	assert.Equal(t, EventReconciled, notifier.events[0].Type)

	// Once live agrees, nothing to do.
	corrections, err = r.Reconcile("g1", "u1", LiveState{Banned: true})
	require.NoError(t, err)
	assert.Empty(t, corrections)
}

func TestReconcileFailureIsolation(t *testing.T) {
	store := newTestStore(t)
	exec := &fakeExecutor{err: fmt.Errorf("%w: down", ErrExecutorTransient)}
	r := NewReconciler(store, exec, nil)

	require.NoError(t, store.SaveTimeout("g1", "u1", time.Now().Add(time.Hour), "spam"))
	require.NoError(t, store.SaveBan("g1", "u1", "raid"))

	corrections, err := r.Reconcile("g1", "u1", LiveState{})
	require.NoError(t, err)
	require.Len(t, corrections, 2)

	// Both corrections were attempted despite the first one failing.
	assert.Equal(t, []string{"timeout", "ban"}, exec.calls)
	for _, c := range corrections {
		assert.ErrorIs(t, c.Err, ErrExecutorTransient)
	}
}

func TestReconcileCleanMemberNoCorrections(t *testing.T) {
	store := newTestStore(t)
	exec := &fakeExecutor{}
	r := NewReconciler(store, exec, nil)

	corrections, err := r.Reconcile("g1", "u1", LiveState{})
	require.NoError(t, err)
	assert.Empty(t, corrections)
	assert.Empty(t, exec.calls)
}
