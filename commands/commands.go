package commands

import (
	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the full slash-command set of the bot.
func GenerateCommands() []*discordgo.ApplicationCommand {
	userOption := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: desc,
			Required:    true,
		}
	}
	reasonOption := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for this action",
			Required:    required,
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "warn",
			Description: "Warn a member; repeated warnings escalate automatically.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to warn"),
				reasonOption(true),
			},
		},
		{
			Name:        "warnings",
			Description: "Show a member's warning history.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to look up"),
			},
		},
		{
			Name:        "unwarn",
			Description: "Remove a member's most recent warning.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to unwarn"),
			},
		},
		{
			Name:        "clearwarns",
			Description: "Remove all warnings of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to clear"),
			},
		},
		{
			Name:        "timeout",
			Description: "Put a member in timeout.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to time out"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "Duration, e.g. 10m, 2h, 1d",
					Required:    true,
				},
				reasonOption(false),
			},
		},
		{
			Name:        "untimeout",
			Description: "Remove a member's timeout.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to release"),
			},
		},
		{
			Name:        "kick",
			Description: "Kick a member from the server.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to kick"),
				reasonOption(false),
			},
		},
		{
			Name:        "ban",
			Description: "Ban a member from the server.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to ban"),
				reasonOption(false),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "purge",
					Description: "Delete messages from this window, e.g. 1d (max 7d)",
					Required:    false,
				},
			},
		},
		{
			Name:        "unban",
			Description: "Lift a ban by user ID.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "user_id",
					Description: "ID of the banned user",
					Required:    true,
				},
				reasonOption(false),
			},
		},
		{
			Name:        "modstatus",
			Description: "Show the moderation status of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to inspect"),
			},
		},
		{
			Name:        "sync",
			Description: "Reconcile a member's recorded sanctions with Discord.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to reconcile"),
			},
		},
		{
			Name:        "modstats",
			Description: "Show warning statistics per moderator.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "window",
					Description: "Look-back window, e.g. 7d (default 30d)",
					Required:    false,
				},
			},
		},
		{
			Name:        "system-info",
			Description: "Show host and bot diagnostics.",
		},
	}
}
