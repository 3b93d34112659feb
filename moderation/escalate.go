package moderation

import (
	"log"
	"time"

	"warden/utils/database/warndb"
)

// Thresholds holds the configured escalation ladder. A zero warning count
// disables that tier.
type Thresholds struct {
	TimeoutWarnings int
	KickWarnings    int
	BanWarnings     int
	TimeoutDuration time.Duration
	Cooldown        time.Duration
}

// OutcomeKind distinguishes why an evaluation ended the way it did, so
// callers can tell "nothing to do" from "wanted to act but couldn't".
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeBlocked
	OutcomeSuppressed
	OutcomeApplied
	OutcomeFailed
)

// Result reports one escalation evaluation.
type Result struct {
	Kind   OutcomeKind
	Action ActionType
	Reason string
	Until  time.Time // set when Action is a timeout
	Err    error
}

// Decide picks the next automatic sanction from the warning count and the
// last action already applied. Tiers are checked highest first: warning
// counts are cumulative, so one new warning can cross several thresholds at
// once and the highest eligible tier must win.
func Decide(count int, last ActionType, th Thresholds) ActionType {
	if th.BanWarnings > 0 && count >= th.BanWarnings && last.Tier() < ActionBan.Tier() {
		return ActionBan
	}
	if th.KickWarnings > 0 && count >= th.KickWarnings && last.Tier() < ActionKick.Tier() {
		return ActionKick
	}
	if th.TimeoutWarnings > 0 && count >= th.TimeoutWarnings && last.Tier() < ActionTimeout.Tier() {
		return ActionTimeout
	}
	return ActionNone
}

// Engine turns a new warning count into an automatic sanction, carries it
// out through the executor, and records the result in the ledger.
type Engine struct {
	store      *warndb.Store
	exec       SanctionExecutor
	perms      *Permissions
	thresholds Thresholds
	notifier   Notifier
	now        func() time.Time
}

func NewEngine(store *warndb.Store, exec SanctionExecutor, perms *Permissions, th Thresholds, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{
		store:      store,
		exec:       exec,
		perms:      perms,
		thresholds: th,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Process evaluates the ladder for a member who just received warningID as
// their newCount-th warning. Callers run it inside the member's ledger lock
// so the count reflects at least their own insert.
//
// On a decision the executor is invoked first; the ledger is only updated
// after the platform confirms the action. A failed attempt never falls
// through to a lower tier in the same pass.
func (e *Engine) Process(guildID string, target, agent Member, warningID int64, newCount int) Result {
	if reason, ok := e.autoActionEligible(target, agent); !ok {
		e.notifier.Notify(Event{
			Type:    EventAutoActionBlocked,
			GuildID: guildID,
			UserID:  target.ID,
			Reason:  reason,
		})
		return Result{Kind: OutcomeBlocked, Reason: reason}
	}

	lastStr, lastAt, err := e.store.GetLastAutoAction(guildID, target.ID)
	if err != nil {
		return Result{Kind: OutcomeFailed, Err: &StorageError{Op: "get last auto action", Err: err}}
	}
	last := ActionType(lastStr)

	if e.thresholds.Cooldown > 0 && lastAt != nil && e.now().Sub(*lastAt) < e.thresholds.Cooldown {
		e.notifier.Notify(Event{
			Type:    EventAutoActionBlocked,
			GuildID: guildID,
			UserID:  target.ID,
			Reason:  "auto action cooldown active",
		})
		return Result{Kind: OutcomeSuppressed, Reason: "auto action cooldown active"}
	}

	action := Decide(newCount, last, e.thresholds)
	if action == ActionNone {
		return Result{Kind: OutcomeNone}
	}

	result := e.apply(guildID, target.ID, action)
	if result.Kind != OutcomeApplied {
		e.notifier.Notify(Event{
			Type:    EventAutoActionFailed,
			GuildID: guildID,
			UserID:  target.ID,
			Action:  action,
			Err:     result.Err,
		})
		return result
	}

	appliedAt := e.now()
	if err := e.store.SetLastAutoAction(guildID, target.ID, string(action), appliedAt); err != nil {
		return Result{Kind: OutcomeFailed, Action: action, Err: &StorageError{Op: "set last auto action", Err: err}}
	}
	if err := e.store.MarkAutoAction(warningID, string(action), appliedAt); err != nil {
		log.Printf("Failed to annotate warning %d with auto action: %v", warningID, err)
	}

	switch action {
	case ActionTimeout:
		if err := e.store.SaveTimeout(guildID, target.ID, result.Until, autoReason(action)); err != nil {
			return Result{Kind: OutcomeFailed, Action: action, Err: &StorageError{Op: "save timeout", Err: err}}
		}
	case ActionBan:
		if err := e.store.SaveBan(guildID, target.ID, autoReason(action)); err != nil {
			return Result{Kind: OutcomeFailed, Action: action, Err: &StorageError{Op: "save ban", Err: err}}
		}
	}

	e.notifier.Notify(Event{
		Type:      EventAutoActionApplied,
		GuildID:   guildID,
		UserID:    target.ID,
		Action:    action,
		WarnCount: newCount,
	})
	return result
}

// autoActionEligible is the hierarchy pre-check: automated accounts and the
// protected tier are never auto-sanctioned, and the agent must outrank the
// target on the platform.
func (e *Engine) autoActionEligible(target, agent Member) (string, bool) {
	if target.IsAutomated {
		return ReasonAutomated, false
	}
	if e.perms.EffectiveLevel(target) >= LevelDev {
		return ReasonProtected, false
	}
	if agent.TopRank <= target.TopRank {
		return ReasonAgentRank, false
	}
	return "", true
}

func (e *Engine) apply(guildID, userID string, action ActionType) Result {
	switch action {
	case ActionTimeout:
		until := e.now().Add(e.thresholds.TimeoutDuration)
		if err := e.exec.Timeout(guildID, userID, until, autoReason(action)); err != nil {
			return Result{Kind: OutcomeFailed, Action: action, Err: err}
		}
		return Result{Kind: OutcomeApplied, Action: action, Until: until}
	case ActionKick:
		if err := e.exec.Kick(guildID, userID, autoReason(action)); err != nil {
			return Result{Kind: OutcomeFailed, Action: action, Err: err}
		}
		return Result{Kind: OutcomeApplied, Action: action}
	case ActionBan:
		if err := e.exec.Ban(guildID, userID, autoReason(action), 0); err != nil {
			return Result{Kind: OutcomeFailed, Action: action, Err: err}
		}
		return Result{Kind: OutcomeApplied, Action: action}
	}
	return Result{Kind: OutcomeNone}
}

func autoReason(action ActionType) string {
	return "automatic " + string(action) + " after accumulated warnings"
}
