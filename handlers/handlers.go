package handlers

import (
	"warden/bot"

	"github.com/bwmarrin/discordgo"
)

// Register wires the command handler map and the interaction dispatcher.
// Handlers run in their own goroutine: sanction calls block on Discord's
// REST API and must stay off the gateway dispatch path.
func Register(b *bot.Bot) {
	wrap := func(h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) func(*discordgo.Session, *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			h(s, i, b)
		}
	}

	b.CommandHandlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"warn":        wrap(HandleWarn),
		"warnings":    wrap(HandleWarnings),
		"unwarn":      wrap(HandleUnwarn),
		"clearwarns":  wrap(HandleClearWarns),
		"timeout":     wrap(HandleTimeout),
		"untimeout":   wrap(HandleUntimeout),
		"kick":        wrap(HandleKick),
		"ban":         wrap(HandleBan),
		"unban":       wrap(HandleUnban),
		"modstatus":   wrap(HandleModStatus),
		"sync":        wrap(HandleSync),
		"modstats":    wrap(HandleModStats),
		"system-info": wrap(HandleSystemInfo),
	}

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if handler, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			go handler(s, i)
		}
	})
}
