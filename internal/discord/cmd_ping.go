package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/Monsters_Go/internal/client"
)

// PingCommand reports gateway latency and whether the registry API answers
func PingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check the bot and the registry API",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, api *client.APIClient) {
		handleEmbedResponse(s, i, func(ctx context.Context) (*discordgo.MessageEmbed, error) {
			start := time.Now()
			apiErr := api.Health(ctx)
			return pingEmbed(s.HeartbeatLatency(), time.Since(start), apiErr), nil
		}, ResponseConfig{Title: "Pong", Color: ColorInfo})
	}

	return cmd, handler
}

// pingEmbed reports both round trips; an unreachable API is shown rather than failing the command
func pingEmbed(gateway, api time.Duration, apiErr error) *discordgo.MessageEmbed {
	apiValue := fmt.Sprintf("%d ms", api.Milliseconds())
	color := ColorAlive
	if apiErr != nil {
		apiValue = "unreachable"
		color = ColorSlain
	}
	return &discordgo.MessageEmbed{
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Gateway", Value: fmt.Sprintf("%d ms", gateway.Milliseconds()), Inline: true},
			{Name: "Registry API", Value: apiValue, Inline: true},
		},
	}
}
