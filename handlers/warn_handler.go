package handlers

import (
	"fmt"
	"log"

	"warden/bot"
	"warden/moderation"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleWarn records an infraction and runs the escalation ladder.
func HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	targetID := userOptionID(s, opts)
	reason := stringOption(opts, "reason")
	if targetID == "" {
		sendError(s, i, "no target user given")
		return
	}

	ctx, ok := authorize(s, i, b, "warn", targetID)
	if !ok {
		return
	}

	var (
		warningID int64
		count     int
		result    moderation.Result
	)
	// Insert, recount and escalate as one serialized unit per member so two
	// concurrent warnings cannot both see a pre-threshold count.
	err := b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		var err error
		warningID, err = b.Store.AddWarning(i.GuildID, targetID, ctx.Actor.ID, reason)
		if err != nil {
			return err
		}
		count, err = b.Store.CountWarnings(i.GuildID, targetID)
		if err != nil {
			return err
		}
		result = b.Engine.Process(i.GuildID, *ctx.Target, ctx.Agent, warningID, count)
		return nil
	})
	if err != nil {
		log.Printf("Error recording warning for user %s: %v", targetID, err)
		sendError(s, i, "internal error: the warning could not be recorded")
		return
	}

	b.Notifier.Notify(moderation.Event{
		Type:        moderation.EventWarningAdded,
		GuildID:     i.GuildID,
		UserID:      targetID,
		ModeratorID: ctx.Actor.ID,
		Reason:      reason,
		WarnCount:   count,
	})

	message := fmt.Sprintf("⚠️ <@%s> has been warned (warning #%d). Reason: %s", targetID, count, reason)
	switch result.Kind {
	case moderation.OutcomeApplied:
		switch result.Action {
		case moderation.ActionTimeout:
			message += fmt.Sprintf("\n🔨 Automatic timeout applied until <t:%d:f>.", result.Until.Unix())
		case moderation.ActionKick:
			message += "\n🔨 Automatic kick applied."
		case moderation.ActionBan:
			message += "\n🔨 Automatic ban applied."
		}
	case moderation.OutcomeFailed:
		message += "\n💥 " + executorFailureMessage("automatic "+string(result.Action), result.Err)
	case moderation.OutcomeBlocked:
		message += "\n🚫 Automatic action blocked: " + result.Reason
	case moderation.OutcomeSuppressed:
		message += "\n⏳ Automatic action suppressed by cooldown."
	}

	utils.SendFollowUp(s, i.Interaction, message)
}
