package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/Monsters_Go/internal/client"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/monster"
)

const (
	optionID   = "id"
	optionLoot = "loot"
)

func tokenOption() *discordgo.ApplicationCommandOption {
	lo := float64(domain.MinTokenID)
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        optionID,
		Description: "Monster ID (1-10000)",
		Required:    true,
		MinValue:    &lo,
		MaxValue:    float64(domain.MaxTokenID),
	}
}

func lootOption() *discordgo.ApplicationCommandOption {
	lo := float64(domain.MinLootID)
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        optionLoot,
		Description: "Loot bag ID (1-8000)",
		Required:    true,
		MinValue:    &lo,
		MaxValue:    float64(domain.MaxLootID),
	}
}

// MonsterCommand shows one monster
func MonsterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "monster",
		Description: "Show a monster's status and weaknesses",
		Options:     []*discordgo.ApplicationCommandOption{tokenOption()},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, c *client.APIClient) {
		id := domain.TokenID(getOptions(i)[optionID].IntValue())
		handleEmbedResponse(s, i, func(ctx context.Context) (*discordgo.MessageEmbed, error) {
			v, err := c.Monster(ctx, id)
			if err != nil {
				return nil, err
			}
			return monsterEmbed(v), nil
		}, ResponseConfig{Title: "Monster", Color: ColorInfo})
	}

	return cmd, handler
}

// CanSlayCommand asks whether a Loot bag can slay a monster
func CanSlayCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "canslay",
		Description: "Check whether a Loot bag's weapon can slay a monster",
		Options:     []*discordgo.ApplicationCommandOption{tokenOption(), lootOption()},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, c *client.APIClient) {
		opts := getOptions(i)
		id := domain.TokenID(opts[optionID].IntValue())
		lootID := domain.LootID(opts[optionLoot].IntValue())
		handleEmbedResponse(s, i, func(ctx context.Context) (*discordgo.MessageEmbed, error) {
			check, err := c.CanSlay(ctx, id, lootID)
			if err != nil {
				return nil, err
			}
			return slayCheckEmbed(check), nil
		}, ResponseConfig{Title: "Can Slay?", Color: ColorInfo})
	}

	return cmd, handler
}

// LootCommand shows a Loot bag's weapon and owner
func LootCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "loot",
		Description: "Show a Loot bag's weapon and owner",
		Options:     []*discordgo.ApplicationCommandOption{lootOption()},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, c *client.APIClient) {
		lootID := domain.LootID(getOptions(i)[optionLoot].IntValue())
		handleEmbedResponse(s, i, func(ctx context.Context) (*discordgo.MessageEmbed, error) {
			l, err := c.Loot(ctx, lootID)
			if err != nil {
				return nil, err
			}
			return lootEmbed(l), nil
		}, ResponseConfig{Title: "Loot", Color: ColorInfo})
	}

	return cmd, handler
}

// CollectionCommand summarizes the registry
func CollectionCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "collection",
		Description: "Show how many monsters have been claimed",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, c *client.APIClient) {
		handleEmbedResponse(s, i, func(ctx context.Context) (*discordgo.MessageEmbed, error) {
			col, err := c.Collection(ctx)
			if err != nil {
				return nil, err
			}
			return collectionEmbed(col), nil
		}, ResponseConfig{Title: domain.CollectionName, Color: ColorInfo})
	}

	return cmd, handler
}

func statusColor(status string) int {
	switch status {
	case domain.StatusAlive:
		return ColorAlive
	case domain.StatusSlain:
		return ColorSlain
	default:
		return ColorUnclaimed
	}
}

func monsterEmbed(v *monster.View) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s #%d", domain.CollectionName, v.ID)
	if v.Name != "" {
		title += ": " + v.Name
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Archetype", Value: v.Archetype, Inline: true},
		{Name: "Status", Value: v.Status, Inline: true},
	}
	if v.Owner != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Owner", Value: v.Owner.Short(), Inline: true})
	}
	if v.Slayer != nil && v.SlainWith != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Slain",
			Value: fmt.Sprintf("by %s with Loot #%d", v.Slayer.Short(), *v.SlainWith),
		})
	} else if len(v.Weaknesses) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Weak to", Value: strings.Join(v.Weaknesses, ", ")})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  statusColor(v.Status),
		Fields: fields,
	}
}

func slayCheckEmbed(c *monster.SlayCheck) *discordgo.MessageEmbed {
	verdict := fmt.Sprintf("Loot #%d cannot slay monster #%d.", c.LootID, c.TokenID)
	color := ColorUnclaimed
	if c.CanSlay {
		verdict = fmt.Sprintf("⚔️ Loot #%d can slay monster #%d!", c.LootID, c.TokenID)
		color = ColorSlain
	}
	if c.Weapon != "" && c.Archetype != "" {
		verdict += fmt.Sprintf("\n%s vs %s", c.Weapon, c.Archetype)
	}
	return &discordgo.MessageEmbed{Description: verdict, Color: color}
}

func lootEmbed(l *monster.LootView) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Loot #%d", l.ID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Weapon", Value: l.Weapon, Inline: true},
			{Name: "Class", Value: l.Class, Inline: true},
			{Name: "Owner", Value: l.Owner.Short(), Inline: true},
		},
	}
}

func collectionEmbed(c *monster.Collection) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("%d of %d monsters claimed.", c.TotalSupply, c.MaxSupply),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Symbol", Value: c.Symbol, Inline: true},
			{Name: "Mint price", Value: c.MintPriceWei + " wei", Inline: true},
		},
	}
}
