package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"warden/commands"
	"warden/moderation"
	"warden/scanner"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Run() {
	if err := b.Session.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	b.RegisterCommands()

	scanner.StartTimeoutSweeper(b.Store, b.done)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	b.Notifier.Notify(moderation.Event{
		Type:   "startup",
		Reason: "warden started",
	})

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

// RegisterCommands bulk-overwrites the command set, scoped to the configured
// guild when one is set and global otherwise.
func (b *Bot) RegisterCommands() {
	cfg := b.GetConfig()
	cmds := commands.GenerateCommands()

	log.Printf("Registering %d commands (guild=%q)...", len(cmds), cfg.Moderation.GuildID)
	registered, err := b.Session.ApplicationCommandBulkOverwrite(cfg.AppID, cfg.Moderation.GuildID, cmds)
	if err != nil {
		log.Printf("cannot register commands: %v", err)
		return
	}
	b.RegisteredCommands = make([]*discordgo.ApplicationCommand, 0, len(registered))
	b.RegisteredCommands = append(b.RegisteredCommands, registered...)
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)
	b.Session.Close()
}
