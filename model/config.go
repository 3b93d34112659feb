package model

import "time"

// Config stores the application configuration.
type Config struct {
	BotToken     string
	AppID        string
	LogChannelID string
	DatabasePath string
	Moderation   ModerationConfig
}

// ModerationConfig is the moderation policy file (config/config.yaml).
type ModerationConfig struct {
	GuildID      string            `mapstructure:"guild_id"`
	Security     SecurityConfig    `mapstructure:"security"`
	ExemptBotIDs []string          `mapstructure:"exempt_bot_ids"`
	RoleLevels   map[string]string `mapstructure:"role_levels"`
	Permissions  map[string]string `mapstructure:"permissions"`
	Escalation   EscalationConfig  `mapstructure:"escalation"`
}

// SecurityConfig holds the safety toggles.
type SecurityConfig struct {
	AdminIsOwner  bool `mapstructure:"admin_is_owner"`
	OwnerRoleOnly bool `mapstructure:"owner_role_only"`
	OwnerBypass   bool `mapstructure:"owner_bypass"`
}

// EscalationConfig holds the warning thresholds for automatic sanctions.
type EscalationConfig struct {
	TimeoutWarnings int           `mapstructure:"timeout_warnings"`
	KickWarnings    int           `mapstructure:"kick_warnings"`
	BanWarnings     int           `mapstructure:"ban_warnings"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
	Cooldown        time.Duration `mapstructure:"auto_action_cooldown"`
}
