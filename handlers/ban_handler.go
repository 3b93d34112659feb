package handlers

import (
	"fmt"
	"log"
	"time"

	"warden/bot"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

const maxPurgeWindow = 7 * 24 * time.Hour

// HandleKick kicks a member. Kicks leave no standing sanction, so the
// ledger is untouched.
func HandleKick(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	targetID := userOptionID(s, opts)
	reason := stringOption(opts, "reason")
	if reason == "" {
		reason = "no reason given"
	}
	if targetID == "" {
		sendError(s, i, "no target user given")
		return
	}

	if _, ok := authorize(s, i, b, "kick", targetID); !ok {
		return
	}

	if err := b.Executor.Kick(i.GuildID, targetID, reason); err != nil {
		log.Printf("Kick of user %s failed: %v", targetID, err)
		sendError(s, i, executorFailureMessage("kick", err))
		return
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("👢 <@%s> has been kicked. Reason: %s", targetID, reason))
}

// HandleBan bans a member and records the active ban in the ledger.
func HandleBan(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	targetID := userOptionID(s, opts)
	reason := stringOption(opts, "reason")
	if reason == "" {
		reason = "no reason given"
	}
	if targetID == "" {
		sendError(s, i, "no target user given")
		return
	}

	var purge time.Duration
	if purgeStr := stringOption(opts, "purge"); purgeStr != "" {
		var err error
		purge, err = utils.ParseDuration(purgeStr)
		if err != nil || purge < 0 || purge > maxPurgeWindow {
			sendError(s, i, "purge window must be between 0 and 7d")
			return
		}
	}

	if _, ok := authorize(s, i, b, "ban", targetID); !ok {
		return
	}

	if err := b.Executor.Ban(i.GuildID, targetID, reason, purge); err != nil {
		log.Printf("Ban of user %s failed: %v", targetID, err)
		sendError(s, i, executorFailureMessage("ban", err))
		return
	}

	err := b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		return b.Store.SaveBan(i.GuildID, targetID, reason)
	})
	if err != nil {
		log.Printf("Failed to record ban for user %s: %v", targetID, err)
		sendError(s, i, "the ban was applied but could not be recorded")
		return
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("🔨 <@%s> has been banned. Reason: %s", targetID, reason))
}

// HandleUnban lifts a ban by user ID. The target is no longer a member, so
// only the permission check applies, not the hierarchy guard. Manually
// clearing the ban rewinds the escalation ladder.
func HandleUnban(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	opts := optionMap(i)
	targetID := stringOption(opts, "user_id")
	reason := stringOption(opts, "reason")
	if reason == "" {
		reason = "ban lifted by moderator"
	}
	if targetID == "" {
		sendError(s, i, "no user ID given")
		return
	}

	if _, ok := authorize(s, i, b, "unban", ""); !ok {
		return
	}

	if err := b.Executor.Unban(i.GuildID, targetID, reason); err != nil {
		log.Printf("Unban of user %s failed: %v", targetID, err)
		sendError(s, i, executorFailureMessage("unban", err))
		return
	}

	err := b.Store.WithMemberLock(i.GuildID, targetID, func() error {
		if err := b.Store.ClearBan(i.GuildID, targetID); err != nil {
			return err
		}
		return b.Store.ResetLastAutoAction(i.GuildID, targetID)
	})
	if err != nil {
		log.Printf("Failed to record unban for user %s: %v", targetID, err)
		sendError(s, i, "the ban was lifted but could not be recorded")
		return
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ The ban of <@%s> has been lifted.", targetID))
}
