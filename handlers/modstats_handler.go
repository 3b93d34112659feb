package handlers

import (
	"log"
	"time"

	"warden/bot"
	"warden/tasks"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

const defaultStatsWindow = 30 * 24 * time.Hour

// HandleModStats shows the per-moderator warning leaderboard.
func HandleModStats(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	if _, ok := authorize(s, i, b, "modstats", ""); !ok {
		return
	}

	window := defaultStatsWindow
	if windowStr := stringOption(optionMap(i), "window"); windowStr != "" {
		parsed, err := utils.ParseDuration(windowStr)
		if err != nil || parsed <= 0 {
			sendError(s, i, "window must be a positive value like 7d")
			return
		}
		window = parsed
	}

	embed, err := tasks.GenerateModerationStatsEmbed(b.Store, i.GuildID, window)
	if err != nil {
		log.Printf("Error generating moderation stats: %v", err)
		sendError(s, i, "internal error: could not generate statistics")
		return
	}

	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}
