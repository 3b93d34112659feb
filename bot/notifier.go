package bot

import (
	"fmt"
	"log"
	"strings"

	"warden/moderation"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen  = 3066993
	colorOrange = 15105570
	colorRed    = 15158332
	colorBlue   = 3447003
)

// channelNotifier posts moderation events as embeds to the configured log
// channel. Delivery runs off the caller's path; a lost embed is acceptable,
// a blocked moderation action is not.
type channelNotifier struct {
	session   *discordgo.Session
	channelID string
}

var _ moderation.Notifier = (*channelNotifier)(nil)

func (n *channelNotifier) Notify(ev moderation.Event) {
	log.Printf("MOD EVENT | %s | guild=%s user=%s action=%s reason=%q err=%v",
		ev.Type, ev.GuildID, ev.UserID, ev.Action, ev.Reason, ev.Err)

	if n.channelID == "" {
		return
	}
	embed := buildEventEmbed(ev)
	go func() {
		if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
			log.Printf("Failed to send moderation log embed: %v", err)
		}
	}()
}

func buildEventEmbed(ev moderation.Event) *discordgo.MessageEmbed {
	var title string
	color := colorBlue

	switch ev.Type {
	case moderation.EventWarningAdded:
		title = "⚠️ Warning Added"
		color = colorOrange
	case moderation.EventWarningRemoved:
		title = "↩️ Warning Removed"
		color = colorGreen
	case moderation.EventAllWarningsCleared:
		title = "🧹 Warnings Cleared"
		color = colorGreen
	case moderation.EventAutoActionApplied:
		title = fmt.Sprintf("🔨 Auto %s Applied", strings.ToUpper(string(ev.Action)))
		color = colorRed
	case moderation.EventAutoActionBlocked:
		title = "🚫 Auto Action Blocked"
	case moderation.EventAutoActionFailed:
		title = fmt.Sprintf("💥 Auto %s Failed", strings.ToUpper(string(ev.Action)))
		color = colorRed
	case moderation.EventReconciled:
		title = "🔄 State Reconciled"
	default:
		title = string(ev.Type)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("<@%s> (%s)", ev.UserID, ev.UserID), Inline: true},
	}
	if ev.ModeratorID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Moderator", Value: fmt.Sprintf("<@%s>", ev.ModeratorID), Inline: true,
		})
	}
	if ev.WarnCount > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Warnings", Value: fmt.Sprintf("%d", ev.WarnCount), Inline: true,
		})
	}
	if ev.Reason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Reason", Value: ev.Reason})
	}
	if len(ev.Corrections) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Corrections", Value: strings.Join(ev.Corrections, "\n"),
		})
	}
	if ev.Err != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Error", Value: ev.Err.Error()})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
	}
}
