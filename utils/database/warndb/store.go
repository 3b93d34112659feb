package warndb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"warden/model"
	"warden/utils"

	"github.com/jmoiron/sqlx"
)

// Store is the punishment ledger: warning history plus the per-member
// sanction row. Every write commits before returning; mutations on the same
// (guild, user) key are serialized through WithMemberLock.
type Store struct {
	db    *sqlx.DB
	locks *utils.KeyedMutex
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, locks: utils.NewKeyedMutex()}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithMemberLock serializes fn against all other locked operations for the
// same (guild, user) pair. Warn handling runs its insert-recount-decide
// sequence inside this lock so two concurrent warnings cannot both read a
// stale count.
func (s *Store) WithMemberLock(guildID, userID string, fn func() error) error {
	return s.locks.Do(guildID+"/"+userID, fn)
}

// AddWarning appends an immutable warning row and returns its ID.
func (s *Store) AddWarning(guildID, userID, moderatorID, reason string) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO warnings (guild_id, user_id, moderator_id, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		guildID, userID, moderatorID, reason, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert warning for user %s: %w", userID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// CountWarnings returns the derived warning count for a member. The count is
// never stored redundantly.
func (s *Store) CountWarnings(guildID, userID string) (int, error) {
	var count int
	err := s.db.Get(&count, `SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings for user %s: %w", userID, err)
	}
	return count, nil
}

// GetWarnings returns the member's warnings, newest first.
func (s *Store) GetWarnings(guildID, userID string, limit int) ([]model.Warning, error) {
	var warnings []model.Warning
	err := s.db.Select(&warnings,
		`SELECT * FROM warnings WHERE guild_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		guildID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get warnings for user %s: %w", userID, err)
	}
	return warnings, nil
}

// DeleteAllWarnings removes every warning for the member and returns how
// many were deleted. Deleting from an empty history is not an error.
func (s *Store) DeleteAllWarnings(guildID, userID string) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM warnings WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete warnings for user %s: %w", userID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return deleted, nil
}

// DeleteLastWarning removes the most recently created warning, ties broken
// by ID descending. Returns false if the member has no warnings.
func (s *Store) DeleteLastWarning(guildID, userID string) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM warnings WHERE id = (
		     SELECT id FROM warnings WHERE guild_id = ? AND user_id = ?
		     ORDER BY created_at DESC, id DESC LIMIT 1
		 )`,
		guildID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete last warning for user %s: %w", userID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return deleted > 0, nil
}

// MarkAutoAction annotates the warning that triggered an automatic action.
// The annotation is written at most once; a second call is a no-op.
func (s *Store) MarkAutoAction(warningID int64, action string, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE warnings SET auto_action_type = ?, auto_action_at = ? WHERE id = ? AND auto_action_type IS NULL`,
		action, at.Unix(), warningID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark auto action on warning %d: %w", warningID, err)
	}
	return nil
}

// GetLastAutoAction returns the last automatic action recorded for the
// member and when it fired. An empty action means the ladder is at rest.
func (s *Store) GetLastAutoAction(guildID, userID string) (string, *time.Time, error) {
	var row struct {
		Action string `db:"last_auto_action"`
		At     *int64 `db:"last_auto_action_at"`
	}
	err := s.db.Get(&row,
		`SELECT last_auto_action, last_auto_action_at FROM punishments WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to get last auto action for user %s: %w", userID, err)
	}
	if row.At == nil {
		return row.Action, nil, nil
	}
	at := time.Unix(*row.At, 0)
	return row.Action, &at, nil
}

// SetLastAutoAction upserts the escalation tier state for the member.
func (s *Store) SetLastAutoAction(guildID, userID, action string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO punishments (guild_id, user_id, last_auto_action, last_auto_action_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(guild_id, user_id)
		 DO UPDATE SET last_auto_action = excluded.last_auto_action, last_auto_action_at = excluded.last_auto_action_at`,
		guildID, userID, action, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set last auto action for user %s: %w", userID, err)
	}
	return nil
}

// ResetLastAutoAction rewinds the ladder to rest. Only manual clearing of a
// sanction calls this; automatic escalation never regresses the ladder.
func (s *Store) ResetLastAutoAction(guildID, userID string) error {
	_, err := s.db.Exec(
		`UPDATE punishments SET last_auto_action = '', last_auto_action_at = NULL WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset last auto action for user %s: %w", userID, err)
	}
	return nil
}

// SaveTimeout upserts the member's active timeout expiry.
func (s *Store) SaveTimeout(guildID, userID string, until time.Time, reason string) error {
	_, err := s.db.Exec(
		`INSERT INTO punishments (guild_id, user_id, active_timeout_until, reason)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(guild_id, user_id)
		 DO UPDATE SET active_timeout_until = excluded.active_timeout_until, reason = excluded.reason`,
		guildID, userID, until.Unix(), reason,
	)
	if err != nil {
		return fmt.Errorf("failed to save timeout for user %s: %w", userID, err)
	}
	return nil
}

// ClearTimeout clears the active timeout field. It does not touch the
// ladder; callers handling a manual untimeout reset that separately.
func (s *Store) ClearTimeout(guildID, userID string) error {
	_, err := s.db.Exec(
		`UPDATE punishments SET active_timeout_until = NULL, reason = NULL WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear timeout for user %s: %w", userID, err)
	}
	return nil
}

// SaveBan upserts the member's active-ban flag.
func (s *Store) SaveBan(guildID, userID, reason string) error {
	_, err := s.db.Exec(
		`INSERT INTO punishments (guild_id, user_id, active_ban, reason)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(guild_id, user_id)
		 DO UPDATE SET active_ban = 1, reason = excluded.reason`,
		guildID, userID, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to save ban for user %s: %w", userID, err)
	}
	return nil
}

// ClearBan clears the active-ban flag.
func (s *Store) ClearBan(guildID, userID string) error {
	_, err := s.db.Exec(
		`UPDATE punishments SET active_ban = 0, reason = NULL WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear ban for user %s: %w", userID, err)
	}
	return nil
}

// GetPunishment returns the member's sanction row, or nil if none exists.
func (s *Store) GetPunishment(guildID, userID string) (*model.PunishmentRecord, error) {
	var record model.PunishmentRecord
	err := s.db.Get(&record, `SELECT * FROM punishments WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get punishment for user %s: %w", userID, err)
	}
	return &record, nil
}

// GetStatus returns the consolidated moderation view of one member.
func (s *Store) GetStatus(guildID, userID string) (model.MemberStatus, error) {
	var status model.MemberStatus

	count, err := s.CountWarnings(guildID, userID)
	if err != nil {
		return status, err
	}
	status.WarnCount = count

	record, err := s.GetPunishment(guildID, userID)
	if err != nil {
		return status, err
	}
	if record != nil {
		status.TimeoutUntil = record.ActiveTimeoutUntil
		status.ActiveBan = record.ActiveBan
		if record.Reason != nil {
			status.Reason = *record.Reason
		}
	}
	return status, nil
}

// ExpiredTimeouts returns every sanction row whose timeout expiry has
// passed, for the background sweep.
func (s *Store) ExpiredTimeouts(now time.Time) ([]model.PunishmentRecord, error) {
	var records []model.PunishmentRecord
	err := s.db.Select(&records,
		`SELECT * FROM punishments WHERE active_timeout_until IS NOT NULL AND active_timeout_until <= ?`,
		now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired timeouts: %w", err)
	}
	return records, nil
}

// ModeratorStats returns the warning count per moderator for a guild within
// the given time range.
func (s *Store) ModeratorStats(guildID string, since time.Time) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT moderator_id, COUNT(*) as count FROM warnings
		 WHERE guild_id = ? AND created_at >= ? GROUP BY moderator_id ORDER BY count DESC`,
		guildID, since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator stats for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var moderatorID string
		var count int
		if err := rows.Scan(&moderatorID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan moderator stats row: %w", err)
		}
		stats[moderatorID] = count
	}
	return stats, rows.Err()
}

// TotalWarningCount returns the number of warnings issued in a guild within
// the given time range.
func (s *Store) TotalWarningCount(guildID string, since time.Time) (int, error) {
	var count int
	err := s.db.Get(&count,
		`SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND created_at >= ?`,
		guildID, since.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get total warning count for guild %s: %w", guildID, err)
	}
	return count, nil
}
