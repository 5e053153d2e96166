package monster

import (
	"github.com/osse101/Monsters_Go/internal/domain"
)

// View is the read model of one token, minted or not.
type View struct {
	ID         domain.TokenID  `json:"id"`
	Minted     bool            `json:"minted"`
	Owner      *domain.Address `json:"owner,omitempty"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Archetype  string          `json:"archetype"`
	Weaknesses []string        `json:"weaknesses"`
	Slayer     *domain.Address `json:"slayer,omitempty"`
	SlainWith  *domain.LootID  `json:"slain_with,omitempty"`
}

// LootView describes a Loot bag as this registry sees it.
type LootView struct {
	ID     domain.LootID  `json:"id"`
	Owner  domain.Address `json:"owner"`
	Weapon string         `json:"weapon"`
	Class  string         `json:"class"`
}

// SlayCheck explains a canSlay answer.
type SlayCheck struct {
	TokenID   domain.TokenID `json:"token_id"`
	LootID    domain.LootID  `json:"loot_id"`
	CanSlay   bool           `json:"can_slay"`
	Weapon    string         `json:"weapon,omitempty"`
	Archetype string         `json:"archetype,omitempty"`
}

// Collection summarizes the registry.
type Collection struct {
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	TotalSupply   int            `json:"total_supply"`
	MaxSupply     int            `json:"max_supply"`
	Administrator domain.Address `json:"administrator"`
	CustodyWei    string         `json:"custody_wei"`
	CustodyEther  string         `json:"custody_ether"`
	MintPriceWei  string         `json:"mint_price_wei"`
}

func weaponNames(ws []domain.Weapon) []string {
	names := make([]string, len(ws))
	for i, w := range ws {
		names[i] = w.Name
	}
	return names
}
