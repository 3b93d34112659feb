package bot

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"warden/moderation"

	"github.com/bwmarrin/discordgo"
)

// discordExecutor carries sanctions out against Discord's REST API and maps
// its failures onto the engine's two-way forbidden/transient split.
type discordExecutor struct {
	session *discordgo.Session
}

var _ moderation.SanctionExecutor = (*discordExecutor)(nil)

func (e *discordExecutor) Timeout(guildID, userID string, until time.Time, reason string) error {
	err := e.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
	return classify(err)
}

func (e *discordExecutor) ClearTimeout(guildID, userID, reason string) error {
	err := e.session.GuildMemberTimeout(guildID, userID, nil, discordgo.WithAuditLogReason(reason))
	return classify(err)
}

func (e *discordExecutor) Kick(guildID, userID, reason string) error {
	err := e.session.GuildMemberDeleteWithReason(guildID, userID, reason)
	return classify(err)
}

func (e *discordExecutor) Ban(guildID, userID, reason string, purge time.Duration) error {
	days := int(purge / (24 * time.Hour))
	err := e.session.GuildBanCreateWithReason(guildID, userID, reason, days)
	return classify(err)
}

func (e *discordExecutor) Unban(guildID, userID, reason string) error {
	err := e.session.GuildBanDelete(guildID, userID, discordgo.WithAuditLogReason(reason))
	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", moderation.ErrExecutorForbidden, err)
	}
	return fmt.Errorf("%w: %v", moderation.ErrExecutorTransient, err)
}
