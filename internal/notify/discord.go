// Package notify announces registry events to a Discord channel.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/logger"
)

// EmbedSender is the slice of *discordgo.Session the notifier needs.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts Slain (and optionally Minted) announcements.
type DiscordNotifier struct {
	sender      EmbedSender
	channelID   string
	announceAll bool
	now         func() time.Time
}

// NewDiscordSession opens a bot-token REST session. No gateway connection is made.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return s, nil
}

// NewDiscordNotifier creates a notifier posting to channelID. announceMints adds
// an announcement for every mint besides slayings.
func NewDiscordNotifier(sender EmbedSender, channelID string, announceMints bool) *DiscordNotifier {
	return &DiscordNotifier{
		sender:      sender,
		channelID:   channelID,
		announceAll: announceMints,
		now:         time.Now,
	}
}

// Register subscribes the notifier to the bus
func (n *DiscordNotifier) Register(bus event.Bus) {
	bus.Subscribe(event.MonsterSlain, n.HandleSlain)
	if n.announceAll {
		bus.Subscribe(event.MonsterMinted, n.HandleMinted)
	}
}

// HandleSlain announces a slaying. Send failures are returned so the resilient
// publisher retries them.
func (n *DiscordNotifier) HandleSlain(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)
	p, err := event.DecodePayload[event.SlainPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgParseError, "error", err, "event_type", evt.Type)
		return nil
	}

	monster := fmt.Sprintf("#%d", p.TokenID)
	if p.Name != "" {
		monster = fmt.Sprintf("#%d %s", p.TokenID, p.Name)
	}
	embed := &discordgo.MessageEmbed{
		Title:       TitleSlain,
		Description: fmt.Sprintf("Monster **%s** was slain with a **%s** from Loot #%d.", monster, p.Weapon, p.LootID),
		Color:       ColorSlain,
		Fields: []*discordgo.MessageEmbedField{
			{Name: FieldMonster, Value: monster, Inline: true},
			{Name: FieldWeapon, Value: p.Weapon, Inline: true},
			{Name: FieldSlayer, Value: p.Slayer, Inline: false},
		},
		Timestamp: n.now().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: FooterText},
	}
	return n.send(ctx, evt.Type, embed)
}

// HandleMinted announces a mint
func (n *DiscordNotifier) HandleMinted(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)
	p, err := event.DecodePayload[event.MintedPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgParseError, "error", err, "event_type", evt.Type)
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       TitleMinted,
		Description: fmt.Sprintf("Monster **#%d** has a new keeper.", p.TokenID),
		Color:       ColorMinted,
		Fields: []*discordgo.MessageEmbedField{
			{Name: FieldOwner, Value: p.Owner, Inline: false},
			{Name: FieldMintRoute, Value: p.Method, Inline: true},
		},
		Timestamp: n.now().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: FooterText},
	}
	return n.send(ctx, evt.Type, embed)
}

func (n *DiscordNotifier) send(ctx context.Context, t event.Type, embed *discordgo.MessageEmbed) error {
	if n.channelID == "" {
		return nil
	}
	log := logger.FromContext(ctx)
	if _, err := n.sender.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		log.Error(LogMsgNotificationError, "error", err, "event_type", t)
		return err
	}
	log.Info(LogMsgNotificationSent, "event_type", t)
	return nil
}
