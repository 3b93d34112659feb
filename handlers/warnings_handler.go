package handlers

import (
	"fmt"
	"log"
	"strings"

	"warden/bot"
	"warden/moderation"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleWarnings shows a member's warning history.
func HandleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
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

	if _, ok := authorize(s, i, b, "warnings", ""); !ok {
		return
	}

	count, err := b.Store.CountWarnings(i.GuildID, targetID)
	if err != nil {
		log.Printf("Error counting warnings for user %s: %v", targetID, err)
		sendError(s, i, "internal error: could not read warnings")
		return
	}

	warnings, err := b.Store.GetWarnings(i.GuildID, targetID, 10)
	if err != nil {
		log.Printf("Error listing warnings for user %s: %v", targetID, err)
		sendError(s, i, "internal error: could not read warnings")
		return
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("<@%s> has **%d** warning(s).\n", targetID, count))
	for _, w := range warnings {
		line := fmt.Sprintf("`#%d` <t:%d:d> by <@%s>: %s", w.ID, w.CreatedAt, w.ModeratorID, w.Reason)
		if w.AutoActionType != nil {
			line += fmt.Sprintf(" *(triggered auto %s)*", *w.AutoActionType)
		}
		builder.WriteString(line + "\n")
	}

	utils.SendFollowUp(s, i.Interaction, builder.String())
}

// HandleUnwarn removes the member's most recent warning.
func HandleUnwarn(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
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

	ctx, ok := authorize(s, i, b, "unwarn", targetID)
	if !ok {
		return
	}

	var removed bool
	err := b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		var err error
		removed, err = b.Store.DeleteLastWarning(i.GuildID, targetID)
		return err
	})
	if err != nil {
		log.Printf("Error deleting last warning for user %s: %v", targetID, err)
		sendError(s, i, "internal error: the warning could not be removed")
		return
	}
	if !removed {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("<@%s> has no warnings to remove.", targetID))
		return
	}

	b.Notifier.Notify(moderation.Event{
		Type:        moderation.EventWarningRemoved,
		GuildID:     i.GuildID,
		UserID:      targetID,
		ModeratorID: ctx.Actor.ID,
	})
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("↩️ Removed the most recent warning of <@%s>.", targetID))
}

// HandleClearWarns removes all warnings of a member.
func HandleClearWarns(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
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

	ctx, ok := authorize(s, i, b, "clearwarns", targetID)
	if !ok {
		return
	}

	var deleted int64
	err := b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		var err error
		deleted, err = b.Store.DeleteAllWarnings(i.GuildID, targetID)
		return err
	})
	if err != nil {
		log.Printf("Error clearing warnings for user %s: %v", targetID, err)
		sendError(s, i, "internal error: the warnings could not be cleared")
		return
	}

	b.Notifier.Notify(moderation.Event{
		Type:        moderation.EventAllWarningsCleared,
		GuildID:     i.GuildID,
		UserID:      targetID,
		ModeratorID: ctx.Actor.ID,
		WarnCount:   int(deleted),
	})
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("🧹 Cleared %d warning(s) of <@%s>.", deleted, targetID))
}
