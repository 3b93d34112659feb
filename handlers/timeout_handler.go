package handlers

import (
	"fmt"
	"log"
	"time"

	"warden/bot"
	"warden/moderation"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleTimeout puts a member in timeout and records it in the ledger.
func HandleTimeout(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	targetID := userOptionID(s, opts)
	durationStr := stringOption(opts, "duration")
	reason := stringOption(opts, "reason")
	if reason == "" {
		reason = "no reason given"
	}
	if targetID == "" {
		sendError(s, i, "no target user given")
		return
	}

	duration, err := utils.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		sendError(s, i, "duration must be a positive value like 10m, 2h or 1d")
		return
	}

	if _, ok := authorize(s, i, b, "timeout", targetID); !ok {
		return
	}

	until := time.Now().Add(duration)
	if err := b.Executor.Timeout(i.GuildID, targetID, until, reason); err != nil {
		log.Printf("Timeout of user %s failed: %v", targetID, err)
		sendError(s, i, executorFailureMessage("timeout", err))
		return
	}

	err = b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		return b.Store.SaveTimeout(i.GuildID, targetID, until, reason)
	})
	if err != nil {
		log.Printf("Failed to record timeout for user %s: %v", targetID, err)
		sendError(s, i, "the timeout was applied but could not be recorded")
		return
	}

	utils.SendFollowUp(s, i.Interaction,
		fmt.Sprintf("⏱️ <@%s> is in timeout until <t:%d:f>. Reason: %s", targetID, until.Unix(), reason))
}

// HandleUntimeout lifts a member's timeout. Manually clearing the sanction
// also rewinds the ladder if the timeout tier was the last automatic step.
func HandleUntimeout(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
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

	if _, ok := authorize(s, i, b, "untimeout", targetID); !ok {
		return
	}

	if err := b.Executor.ClearTimeout(i.GuildID, targetID, "timeout lifted by moderator"); err != nil {
		log.Printf("Untimeout of user %s failed: %v", targetID, err)
		sendError(s, i, executorFailureMessage("untimeout", err))
		return
	}

	err := b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		if err := b.Store.ClearTimeout(i.GuildID, targetID); err != nil {
			return err
		}
		last, _, err := b.Store.GetLastAutoAction(i.GuildID, targetID)
		if err != nil {
			return err
		}
		if moderation.ActionType(last) == moderation.ActionTimeout {
			return b.Store.ResetLastAutoAction(i.GuildID, targetID)
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to record untimeout for user %s: %v", targetID, err)
		sendError(s, i, "the timeout was lifted but could not be recorded")
		return
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Timeout of <@%s> has been lifted.", targetID))
}
