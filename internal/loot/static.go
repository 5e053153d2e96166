package loot

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// StaticOracle serves Loot ownership from a fixed table. Used for development
// deployments without an Ethereum node, and in tests.
type StaticOracle struct {
	mu     sync.RWMutex
	owners map[domain.LootID]domain.Address
}

type ownersFile struct {
	Owners map[int]string `yaml:"owners"`
}

// NewStaticOracle creates a StaticOracle from an ownership table.
func NewStaticOracle(owners map[domain.LootID]domain.Address) *StaticOracle {
	o := &StaticOracle{owners: make(map[domain.LootID]domain.Address, len(owners))}
	for id, addr := range owners {
		o.owners[id] = addr
	}
	return o
}

// LoadStaticOracle reads a YAML fixture of the form:
//
//	owners:
//	  528: "0x..."
func LoadStaticOracle(path string) (*StaticOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFixtureReadFailed, err)
	}
	return ParseStaticOracle(data)
}

// ParseStaticOracle builds a StaticOracle from YAML fixture bytes.
func ParseStaticOracle(data []byte) (*StaticOracle, error) {
	var f ownersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse loot owners: %w", err)
	}
	owners := make(map[domain.LootID]domain.Address, len(f.Owners))
	for id, raw := range f.Owners {
		lootID := domain.LootID(id)
		if !lootID.Valid() {
			return nil, fmt.Errorf("%w: loot id %d out of range", domain.ErrInvalidInput, id)
		}
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("loot %d: %w", id, err)
		}
		owners[lootID] = addr
	}
	return NewStaticOracle(owners), nil
}

// OwnerOf returns the owner in the table; bags not listed are reported as unowned.
func (o *StaticOracle) OwnerOf(_ context.Context, id domain.LootID) (domain.Address, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.owners[id], nil
}

// Set records a new owner for a bag, mirroring a transfer on the Loot contract.
func (o *StaticOracle) Set(id domain.LootID, owner domain.Address) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.owners[id] = owner
}
