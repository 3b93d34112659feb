package bot

import (
	"fmt"
	"sync/atomic"

	"warden/model"
	"warden/moderation"
	"warden/utils/database/warndb"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Store              *warndb.Store
	Perms              *moderation.Permissions
	Guard              *moderation.Guard
	Engine             *moderation.Engine
	Reconciler         *moderation.Reconciler
	Executor           moderation.SanctionExecutor
	Notifier           moderation.Notifier
	done               chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetStore() *warndb.Store {
	return b.Store
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, store *warndb.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentGuildModeration

	perms, err := moderation.NewPermissions(
		cfg.Moderation.RoleLevels,
		cfg.Moderation.Permissions,
		cfg.Moderation.Security.AdminIsOwner,
		cfg.Moderation.Security.OwnerRoleOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid moderation config: %w", err)
	}

	guard := moderation.NewGuard(perms, cfg.Moderation.Security.OwnerBypass, cfg.Moderation.ExemptBotIDs, nil)
	executor := &discordExecutor{session: dg}
	notifier := &channelNotifier{session: dg, channelID: cfg.LogChannelID}

	thresholds := moderation.Thresholds{
		TimeoutWarnings: cfg.Moderation.Escalation.TimeoutWarnings,
		KickWarnings:    cfg.Moderation.Escalation.KickWarnings,
		BanWarnings:     cfg.Moderation.Escalation.BanWarnings,
		TimeoutDuration: cfg.Moderation.Escalation.TimeoutDuration,
		Cooldown:        cfg.Moderation.Escalation.Cooldown,
	}

	b := &Bot{
		Session:    dg,
		Store:      store,
		Perms:      perms,
		Guard:      guard,
		Engine:     moderation.NewEngine(store, executor, perms, thresholds, notifier),
		Reconciler: moderation.NewReconciler(store, executor, notifier),
		Executor:   executor,
		Notifier:   notifier,
		done:       make(chan struct{}),
	}
	b.config.Store(cfg)
	return b, nil
}

func (b *Bot) Done() <-chan struct{} {
	return b.done
}
