package moderation

import (
	"errors"
	"fmt"
	"time"
)

// ActionType identifies one rung of the automatic sanction ladder.
type ActionType string

const (
	ActionNone    ActionType = ""
	ActionTimeout ActionType = "timeout"
	ActionKick    ActionType = "kick"
	ActionBan     ActionType = "ban"
)

// Tier orders actions by severity. The ladder only ever climbs: a tier at
// or below the last applied one must not fire again.
func (a ActionType) Tier() int {
	switch a {
	case ActionTimeout:
		return 1
	case ActionKick:
		return 2
	case ActionBan:
		return 3
	}
	return 0
}

// SanctionExecutor performs the actual punitive calls against the remote
// platform. Implementations classify failures as ErrExecutorForbidden or
// ErrExecutorTransient; the engine never inspects anything beyond that split.
type SanctionExecutor interface {
	Timeout(guildID, userID string, until time.Time, reason string) error
	ClearTimeout(guildID, userID, reason string) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string, purge time.Duration) error
	Unban(guildID, userID, reason string) error
}

var (
	// ErrExecutorForbidden means the platform refused the action outright;
	// retrying cannot help.
	ErrExecutorForbidden = errors.New("platform refused the action")
	// ErrExecutorTransient covers network and service failures that may
	// succeed on a later attempt.
	ErrExecutorTransient = errors.New("transient platform failure")
)

// AuthorizationDenied is a guard or permission rejection. It always carries
// the user-presentable reason and is never retried.
type AuthorizationDenied struct {
	Reason string
}

func (e *AuthorizationDenied) Error() string {
	return "authorization denied: " + e.Reason
}

// ValidationError rejects malformed input before any ledger or executor call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Msg
}

// StorageError wraps a ledger failure. The operation it interrupted must not
// proceed as if the write had happened.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
