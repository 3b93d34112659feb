package handlers

import (
	"fmt"
	"log"

	"warden/bot"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleModStatus shows the consolidated moderation state of a member.
func HandleModStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	targetID := userOptionID(s, opts)
	if targetID == "" {
		sendError(s, i, "no target user given")
		return
	}

	if _, ok := authorize(s, i, b, "modstatus", ""); !ok {
		return
	}

	status, err := b.Store.GetStatus(i.GuildID, targetID)
	if err != nil {
		log.Printf("Error reading status for user %s: %v", targetID, err)
		sendError(s, i, "internal error: could not read the moderation status")
		return
	}

	timeoutValue := "none"
	if status.TimeoutUntil != nil {
		timeoutValue = fmt.Sprintf("<t:%d:f>", *status.TimeoutUntil)
	}
	banValue := "no"
	if status.ActiveBan {
		banValue = "yes"
	}
	reasonValue := status.Reason
	if reasonValue == "" {
		reasonValue = "—"
	}

	embed := &discordgo.MessageEmbed{
		Title: "Moderation Status",
		Color: 3447003,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", targetID), Inline: true},
			{Name: "Warnings", Value: fmt.Sprintf("%d", status.WarnCount), Inline: true},
			{Name: "Timeout until", Value: timeoutValue, Inline: true},
			{Name: "Active ban", Value: banValue, Inline: true},
			{Name: "Last reason", Value: reasonValue},
		},
	}
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}
