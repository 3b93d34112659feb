package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"warden/utils/database/warndb"

	"github.com/bwmarrin/discordgo"
)

// GenerateModerationStatsEmbed builds the per-moderator warning leaderboard
// for a guild over the given look-back window.
func GenerateModerationStatsEmbed(store *warndb.Store, guildID string, window time.Duration) (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-window)

	stats, err := store.ModeratorStats(guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator stats for guild %s: %w", guildID, err)
	}

	total, err := store.TotalWarningCount(guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get total warning count for guild %s: %w", guildID, err)
	}

	sortedModerators := make([]string, 0, len(stats))
	for moderatorID := range stats {
		sortedModerators = append(sortedModerators, moderatorID)
	}
	sort.Slice(sortedModerators, func(i, j int) bool {
		return stats[sortedModerators[i]] > stats[sortedModerators[j]]
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("### Warnings issued in the last %s\n", window.String()))
	builder.WriteString(fmt.Sprintf("**Total: %d**\n\n", total))
	builder.WriteString("**Per moderator:**\n")
	for i, moderatorID := range sortedModerators {
		builder.WriteString(fmt.Sprintf("%d. <@%s>: %d\n", i+1, moderatorID, stats[moderatorID]))
	}
	if len(sortedModerators) == 0 {
		builder.WriteString("none\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Moderation Statistics",
		Description: builder.String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       0x00ff00,
	}, nil
}
