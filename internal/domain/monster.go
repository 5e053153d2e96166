package domain

import "unicode/utf8"

// TokenID numbers a monster in the closed universe [MinTokenID, MaxTokenID].
type TokenID int

// Valid reports whether id lies in the monster universe.
func (id TokenID) Valid() bool {
	return id >= MinTokenID && id <= MaxTokenID
}

// IsPublic reports whether id can be minted by anyone for the mint price.
func (id TokenID) IsPublic() bool {
	return id >= MinTokenID && id <= MaxPublicTokenID
}

// IsReserved reports whether id is held back for the administrator.
func (id TokenID) IsReserved() bool {
	return id >= MinReservedTokenID && id <= MaxTokenID
}

// LootID numbers a bag in the external Loot registry.
type LootID int

// Valid reports whether id can exist in the Loot registry.
func (id LootID) Valid() bool {
	return id >= MinLootID && id <= MaxLootID
}

// Status is either Alive or Slain. The set is closed: no other type implements it.
type Status interface {
	isStatus()
	String() string
}

// Alive is the initial status of every minted monster.
type Alive struct{}

func (Alive) isStatus() {}

func (Alive) String() string { return StatusAlive }

// Slain records who slew the monster and with which Loot bag.
type Slain struct {
	Slayer Address
	LootID LootID
}

func (Slain) isStatus() {}

func (Slain) String() string { return StatusSlain }

// Status labels
const (
	StatusAlive     = "alive"
	StatusSlain     = "slain"
	StatusUnclaimed = "unclaimed"
)

// Monster is the state of one minted token.
type Monster struct {
	ID     TokenID
	Owner  Address
	Name   string
	Status Status
}

// NewMonster returns a freshly minted, unnamed, living monster.
func NewMonster(id TokenID, owner Address) Monster {
	return Monster{ID: id, Owner: owner, Status: Alive{}}
}

// Slain returns the slaying record if the monster has been slain.
func (m Monster) Slain() (Slain, bool) {
	s, ok := m.Status.(Slain)
	return s, ok
}

// IsAlive reports whether the monster can still be renamed or slain.
func (m Monster) IsAlive() bool {
	_, slain := m.Slain()
	return !slain
}

// ValidName reports whether name fits the byte bound and is valid UTF-8.
func ValidName(name string) bool {
	return len(name) <= MaxNameLength && utf8.ValidString(name)
}
