package config

import (
	"fmt"
	"log"
	"os"

	"warden/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and the
// moderation policy file.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, moderation log embeds will be disabled")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/warden.db"
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	moderation, err := loadModerationConfig(configPath)
	if err != nil {
		return nil, err
	}

	return &model.Config{
		BotToken:     token,
		AppID:        appID,
		LogChannelID: logChannelID,
		DatabasePath: dbPath,
		Moderation:   *moderation,
	}, nil
}

func loadModerationConfig(path string) (*model.ModerationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("security.admin_is_owner", true)
	v.SetDefault("security.owner_bypass", true)
	v.SetDefault("escalation.timeout_duration", "300s")
	v.SetDefault("escalation.auto_action_cooldown", "0s")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read moderation config %s: %w", path, err)
	}

	var cfg model.ModerationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse moderation config %s: %w", path, err)
	}

	if cfg.GuildID == "" {
		log.Println("Warning: guild_id not set in moderation config, commands will be registered globally")
	}
	return &cfg, nil
}
