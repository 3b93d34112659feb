package model

// Warning represents a single infraction issued against a member.
// The database table is named 'warnings'.
type Warning struct {
	ID             int64   `db:"id"` // Primary Key, Auto-increment
	GuildID        string  `db:"guild_id"`
	UserID         string  `db:"user_id"`
	ModeratorID    string  `db:"moderator_id"`
	Reason         string  `db:"reason"`
	CreatedAt      int64   `db:"created_at"`
	AutoActionType *string `db:"auto_action_type"` // Set at most once, after escalation fires
	AutoActionAt   *int64  `db:"auto_action_at"`
}
