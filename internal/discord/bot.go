// Package discord runs a read-only slash-command bot over the Monsters API.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/Monsters_Go/internal/client"
)

// Bot answers slash commands by querying the registry API.
type Bot struct {
	Session  *discordgo.Session
	Client   *client.APIClient
	AppID    string
	Registry *CommandRegistry
	health   *healthCounters
}

// Config wires a Bot. Commands defaults to DefaultCommands.
type Config struct {
	Token    string
	AppID    string
	APIURL   string
	APIKey   string
	Commands []CommandFactory
}

// New builds a bot with its commands registered locally. Nothing touches
// Discord until Run.
func New(cfg Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	// slash commands arrive as interactions; no message intents needed
	session.Identify.Intents = discordgo.IntentsGuilds

	factories := cfg.Commands
	if factories == nil {
		factories = DefaultCommands()
	}
	registry := NewCommandRegistry()
	registry.RegisterAll(factories)

	return &Bot{
		Session:  session,
		Client:   client.NewAPIClient(cfg.APIURL, cfg.APIKey),
		AppID:    cfg.AppID,
		Registry: registry,
		health:   newHealthCounters(),
	}, nil
}

// Run opens the gateway, syncs the command set with Discord and serves
// interactions until ctx is cancelled. A failed sync is logged, not fatal:
// commands from an earlier run stay live.
func (b *Bot) Run(ctx context.Context, forceSync bool) error {
	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(b.onInteraction)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer func() {
		if err := b.Session.Close(); err != nil {
			slog.Warn("Discord session close failed", "error", err)
		}
	}()
	slog.Info(LogMsgBotRunning, "commands", len(b.Registry.Commands))

	if err := b.RegisterCommands(forceSync); err != nil {
		slog.Error("Failed to register commands", "error", err)
	}

	<-ctx.Done()
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Discord gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatch(s, i)
}

// dispatch runs the matching command handler. A panicking handler is logged
// and, with a live session, answered with a generic error.
func (b *Bot) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Command handler panicked", "command", name, "panic", r, "stack", string(debug.Stack()))
			if s != nil {
				respondError(s, i, MsgGenericError)
			}
		}
	}()

	if b.Registry.Handle(s, i, b.Client) {
		b.health.record()
		return
	}
	slog.Warn("Unknown command", "command", name)
}
