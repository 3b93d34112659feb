package model

// PunishmentRecord is the per-(guild, user) sanction row in the 'punishments'
// table. At most one row exists per key; writes use upsert semantics.
type PunishmentRecord struct {
	GuildID            string  `db:"guild_id"`
	UserID             string  `db:"user_id"`
	ActiveTimeoutUntil *int64  `db:"active_timeout_until"`
	ActiveBan          bool    `db:"active_ban"`
	Reason             *string `db:"reason"`
	LastAutoAction     string  `db:"last_auto_action"`
	LastAutoActionAt   *int64  `db:"last_auto_action_at"`
}

// MemberStatus is the consolidated moderation view of one member, read by
// reconciliation and the modstatus command.
type MemberStatus struct {
	WarnCount    int
	TimeoutUntil *int64
	ActiveBan    bool
	Reason       string
}
