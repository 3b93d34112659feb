package moderation

import (
	"time"

	"warden/utils/database/warndb"
)

// LiveState is the platform's current view of one member, fetched by the
// caller right before reconciling.
type LiveState struct {
	TimedOutUntil *time.Time
	Banned        bool
}

// Correction describes one reconciliation step. Err is set when the step
// failed; the pass still continues with the remaining steps.
type Correction struct {
	Description string
	Err         error
}

// Reconciler converges the ledger and the live platform state for single
// members on demand.
type Reconciler struct {
	store    *warndb.Store
	exec     SanctionExecutor
	notifier Notifier
	now      func() time.Time
}

func NewReconciler(store *warndb.Store, exec SanctionExecutor, notifier Notifier) *Reconciler {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Reconciler{store: store, exec: exec, notifier: notifier, now: time.Now}
}

// Reconcile compares the member's ledger row against live and issues
// corrective actions for drift in either direction. Each correction is
// independent; a failure in one never aborts the rest.
//
// A ban found live but absent from the ledger is deliberately left alone:
// bans are rare enough that adopting them stays a manual admin decision.
// The flip side of that: while live disagrees with a ledger ban, every pass
// re-issues the same ban correction. That repetition is expected.
func (r *Reconciler) Reconcile(guildID, userID string, live LiveState) ([]Correction, error) {
	record, err := r.store.GetPunishment(guildID, userID)
	if err != nil {
		return nil, &StorageError{Op: "get punishment", Err: err}
	}

	var corrections []Correction
	now := r.now()

	var ledgerTimeout *time.Time
	if record != nil && record.ActiveTimeoutUntil != nil {
		t := time.Unix(*record.ActiveTimeoutUntil, 0)
		ledgerTimeout = &t
	}

	// Ledger -> platform: an unexpired timeout the platform lost.
	if ledgerTimeout != nil && ledgerTimeout.After(now) && live.TimedOutUntil == nil {
		c := Correction{Description: "timeout reapplied from ledger"}
		if err := r.exec.Timeout(guildID, userID, *ledgerTimeout, "sync: restoring recorded timeout"); err != nil {
			c.Err = err
		}
		corrections = append(corrections, c)
	}

	// Platform -> ledger: a live timeout the ledger never saw. Persist it;
	// nothing is re-applied remotely.
	if live.TimedOutUntil != nil && ledgerTimeout == nil {
		c := Correction{Description: "timeout adopted from platform"}
		if err := r.store.SaveTimeout(guildID, userID, *live.TimedOutUntil, "sync: adopted from platform"); err != nil {
			c.Err = &StorageError{Op: "save timeout", Err: err}
		}
		corrections = append(corrections, c)
	}

	// Ledger -> platform: an active ban the platform lost.
	if record != nil && record.ActiveBan && !live.Banned {
		c := Correction{Description: "ban reapplied from ledger"}
		if err := r.exec.Ban(guildID, userID, "sync: restoring recorded ban", 0); err != nil {
			c.Err = err
		}
		corrections = append(corrections, c)
	}

	if len(corrections) > 0 {
		descriptions := make([]string, 0, len(corrections))
		for _, c := range corrections {
			descriptions = append(descriptions, c.Description)
		}
		r.notifier.Notify(Event{
			Type:        EventReconciled,
			GuildID:     guildID,
			UserID:      userID,
			Corrections: descriptions,
		})
	}
	return corrections, nil
}
