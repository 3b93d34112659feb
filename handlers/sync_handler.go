package handlers

import (
	"fmt"
	"log"
	"strings"

	"warden/bot"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleSync reconciles a member's recorded sanctions with Discord's live
// state and reports the corrections made.
func HandleSync(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
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

	if _, ok := authorize(s, i, b, "sync", ""); !ok {
		return
	}

	live, err := b.LiveState(i.GuildID, targetID)
	if err != nil {
		log.Printf("Error fetching live state for user %s: %v", targetID, err)
		sendError(s, i, "could not fetch the member's live state")
		return
	}

	corrections, err := b.Reconciler.Reconcile(i.GuildID, targetID, live)
	if err != nil {
		log.Printf("Error reconciling user %s: %v", targetID, err)
		sendError(s, i, "internal error: reconciliation could not read the ledger")
		return
	}

	if len(corrections) == 0 {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ <@%s> is already in sync.", targetID))
		return
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🔄 Reconciled <@%s>:\n", targetID))
	for _, c := range corrections {
		if c.Err != nil {
			builder.WriteString(fmt.Sprintf("- %s — failed: %v\n", c.Description, c.Err))
		} else {
			builder.WriteString(fmt.Sprintf("- %s\n", c.Description))
		}
	}
	utils.SendFollowUp(s, i.Interaction, builder.String())
}
