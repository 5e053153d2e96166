package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/monster"
)

var testOwner = domain.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func TestMonsterEmbed_Alive(t *testing.T) {
	e := monsterEmbed(&monster.View{
		ID:         1,
		Minted:     true,
		Owner:      &testOwner,
		Name:       "Fluffy",
		Status:     domain.StatusAlive,
		Archetype:  "werewolf",
		Weaknesses: []string{"Long Sword", "Silver"},
	})

	assert.Equal(t, "Monsters #1: Fluffy", e.Title)
	assert.Equal(t, ColorAlive, e.Color)
	require.Len(t, e.Fields, 4)
	assert.Equal(t, testOwner.Short(), e.Fields[2].Value)
	assert.Equal(t, "Weak to", e.Fields[3].Name)
	assert.Equal(t, "Long Sword, Silver", e.Fields[3].Value)
}

func TestMonsterEmbed_Slain(t *testing.T) {
	loot := domain.LootID(528)
	e := monsterEmbed(&monster.View{
		ID:         1,
		Minted:     true,
		Owner:      &testOwner,
		Status:     domain.StatusSlain,
		Archetype:  "werewolf",
		Weaknesses: []string{"Long Sword"},
		Slayer:     &testOwner,
		SlainWith:  &loot,
	})

	assert.Equal(t, "Monsters #1", e.Title)
	assert.Equal(t, ColorSlain, e.Color)
	last := e.Fields[len(e.Fields)-1]
	assert.Equal(t, "Slain", last.Name)
	assert.Contains(t, last.Value, "Loot #528")
}

func TestMonsterEmbed_Unclaimed(t *testing.T) {
	e := monsterEmbed(&monster.View{ID: 9999, Status: domain.StatusUnclaimed, Archetype: "mimic"})
	assert.Equal(t, ColorUnclaimed, e.Color)
	assert.Len(t, e.Fields, 2)
}

func TestSlayCheckEmbed(t *testing.T) {
	yes := slayCheckEmbed(&monster.SlayCheck{TokenID: 1, LootID: 528, CanSlay: true, Weapon: "Long Sword", Archetype: "werewolf"})
	assert.Contains(t, yes.Description, "can slay monster #1")
	assert.Contains(t, yes.Description, "Long Sword vs werewolf")

	no := slayCheckEmbed(&monster.SlayCheck{TokenID: 2, LootID: 528})
	assert.Contains(t, no.Description, "cannot slay")
	assert.Equal(t, ColorUnclaimed, no.Color)
}

func TestCollectionEmbed(t *testing.T) {
	e := collectionEmbed(&monster.Collection{Symbol: "MONSTER", TotalSupply: 3, MaxSupply: 10000, MintPriceWei: domain.MinPriceWei})
	assert.Equal(t, "3 of 10000 monsters claimed.", e.Description)
	assert.Equal(t, domain.MinPriceWei+" wei", e.Fields[1].Value)
}
