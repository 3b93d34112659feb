package handlers

import (
	"errors"
	"fmt"
	"log"

	"warden/bot"
	"warden/moderation"

	"github.com/bwmarrin/discordgo"
)

// optionMap indexes the interaction's command options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func userOptionID(s *discordgo.Session, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	if opt, ok := opts["user"]; ok {
		if user := opt.UserValue(s); user != nil {
			return user.ID
		}
	}
	return ""
}

// authContext is the snapshot set an authorized moderation action runs with.
type authContext struct {
	Actor  moderation.Member
	Agent  moderation.Member
	Target *moderation.Member
}

// authorize runs the permission check and the hierarchy guard for one
// interaction. On denial it answers the interaction itself and returns
// ok=false; handlers just return. Both checks work on fresh role snapshots.
func authorize(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, action, targetID string) (authContext, bool) {
	var ctx authContext

	if i.Member == nil || i.Member.User == nil {
		sendError(s, i, "this command only works inside a server")
		return ctx, false
	}

	actor, err := b.MemberSnapshot(i.GuildID, i.Member.User.ID)
	if err != nil {
		log.Printf("Failed to snapshot actor %s: %v", i.Member.User.ID, err)
		sendError(s, i, "could not load your member data")
		return ctx, false
	}
	ctx.Actor = actor

	if !b.Perms.HasPermission(actor, action) {
		sendError(s, i, "you do not have permission to use this command")
		return ctx, false
	}

	agent, err := b.AgentSnapshot(i.GuildID)
	if err != nil {
		log.Printf("Failed to snapshot agent in guild %s: %v", i.GuildID, err)
		sendError(s, i, "could not determine my own member data")
		return ctx, false
	}
	ctx.Agent = agent

	if targetID != "" {
		target, err := b.MemberSnapshot(i.GuildID, targetID)
		if err != nil {
			log.Printf("Failed to snapshot target %s: %v", targetID, err)
			sendError(s, i, "could not load the target's member data")
			return ctx, false
		}
		ctx.Target = &target
	}

	if allowed, reason := b.Guard.CanModerate(ctx.Actor, ctx.Target, ctx.Agent, action); !allowed {
		sendError(s, i, reason)
		return ctx, false
	}

	return ctx, true
}

func sendError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	content := "❌ " + message
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		log.Printf("Error sending denial response: %v", err)
	}
}

// executorFailureMessage translates the two-way failure split into a
// user-presentable message.
func executorFailureMessage(action string, err error) string {
	if errors.Is(err, moderation.ErrExecutorForbidden) {
		return fmt.Sprintf("Discord refused the %s: my standing on the server is insufficient.", action)
	}
	return fmt.Sprintf("The %s failed due to a platform error, please try again.", action)
}
