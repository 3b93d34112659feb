package bot

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"warden/moderation"

	"github.com/bwmarrin/discordgo"
)

// guild returns the guild from the session state, falling back to REST.
func (b *Bot) guild(guildID string) (*discordgo.Guild, error) {
	if guild, err := b.Session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild, nil
	}
	guild, err := b.Session.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	return guild, nil
}

// MemberSnapshot builds a point-in-time role snapshot of one member. Every
// authorization check calls this fresh; role data is never cached between
// checks.
func (b *Bot) MemberSnapshot(guildID, userID string) (moderation.Member, error) {
	guild, err := b.guild(guildID)
	if err != nil {
		return moderation.Member{}, err
	}

	member, err := b.Session.GuildMember(guildID, userID)
	if err != nil {
		return moderation.Member{}, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}

	rolesByID := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		rolesByID[role.ID] = role
	}

	topRank := 0
	isAdmin := false
	for _, roleID := range member.Roles {
		role, ok := rolesByID[roleID]
		if !ok {
			continue
		}
		if role.Position > topRank {
			topRank = role.Position
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			isAdmin = true
		}
	}

	return moderation.Member{
		ID:              userID,
		RoleIDs:         member.Roles,
		TopRank:         topRank,
		IsAutomated:     member.User != nil && member.User.Bot,
		IsAdministrator: isAdmin || guild.OwnerID == userID,
		IsOwner:         guild.OwnerID == userID,
	}, nil
}

// AgentSnapshot builds the snapshot of the bot's own member in the guild.
func (b *Bot) AgentSnapshot(guildID string) (moderation.Member, error) {
	return b.MemberSnapshot(guildID, b.Session.State.User.ID)
}

// LiveState fetches the platform's current sanction view of a member for
// reconciliation. A member who cannot be fetched (left or banned) simply
// has no live timeout.
func (b *Bot) LiveState(guildID, userID string) (moderation.LiveState, error) {
	var live moderation.LiveState

	member, err := b.Session.GuildMember(guildID, userID)
	if err == nil {
		if member.CommunicationDisabledUntil != nil && member.CommunicationDisabledUntil.After(time.Now()) {
			until := *member.CommunicationDisabledUntil
			live.TimedOutUntil = &until
		}
	} else if !isNotFound(err) {
		return live, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}

	if _, err := b.Session.GuildBan(guildID, userID); err == nil {
		live.Banned = true
	} else if !isNotFound(err) {
		return live, fmt.Errorf("failed to fetch ban state for %s: %w", userID, err)
	}

	return live, nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
