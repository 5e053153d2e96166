// Package weakness holds the static bestiary: which archetype each monster ID
// belongs to and which Loot weapons can slay it.
package weakness

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/osse101/Monsters_Go/internal/domain"
)

//go:embed bestiary.yaml
var bestiaryYAML []byte

// Archetype is a kind of monster together with its weaknesses.
type Archetype struct {
	Name       string
	Weaknesses []domain.Weapon
	weakTo     map[int]bool
}

// WeakTo reports whether w slays this archetype.
func (a Archetype) WeakTo(w domain.Weapon) bool {
	return a.weakTo[w.Index]
}

type bestiaryFile struct {
	Archetypes []struct {
		Name       string   `yaml:"name"`
		Weaknesses []string `yaml:"weaknesses"`
	} `yaml:"archetypes"`
}

// Table maps monster IDs to archetypes and answers weakness queries.
// It is immutable once built and safe for concurrent reads.
type Table struct {
	archetypes []Archetype
}

// Default returns the table built from the embedded bestiary.
func Default() *Table {
	t, err := Parse(bestiaryYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded bestiary is invalid: %v", err))
	}
	return t
}

// Parse builds a table from a bestiary document. Every weakness must name a Loot weapon
// and every Loot weapon must slay at least one archetype.
func Parse(data []byte) (*Table, error) {
	var f bestiaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse bestiary: %w", err)
	}
	if len(f.Archetypes) == 0 {
		return nil, errors.New(ErrMsgNoArchetypes)
	}

	seen := make(map[string]bool, len(f.Archetypes))
	covered := make(map[int]bool)
	t := &Table{archetypes: make([]Archetype, 0, len(f.Archetypes))}
	for i, raw := range f.Archetypes {
		if raw.Name == "" {
			return nil, fmt.Errorf(ErrMsgEmptyArchetypeName, i)
		}
		if seen[raw.Name] {
			return nil, fmt.Errorf(ErrMsgDuplicateArchetype, raw.Name)
		}
		seen[raw.Name] = true

		a := Archetype{Name: raw.Name, weakTo: make(map[int]bool, len(raw.Weaknesses))}
		for _, name := range raw.Weaknesses {
			w, ok := domain.WeaponByName(name)
			if !ok {
				return nil, fmt.Errorf(ErrMsgUnknownWeapon, raw.Name, name)
			}
			if a.weakTo[w.Index] {
				continue
			}
			a.weakTo[w.Index] = true
			a.Weaknesses = append(a.Weaknesses, w)
			covered[w.Index] = true
		}
		t.archetypes = append(t.archetypes, a)
	}

	for _, w := range domain.Weapons() {
		if !covered[w.Index] {
			return nil, fmt.Errorf(ErrMsgUncoveredWeapon, w.Name)
		}
	}
	return t, nil
}

func (t *Table) lookup(id domain.TokenID) (Archetype, bool) {
	if !id.Valid() {
		return Archetype{}, false
	}
	return t.archetypes[domain.Pluck(ArchetypePluckPrefix, int(id), len(t.archetypes))], true
}

// clone detaches Weaknesses from the table. weakTo is never written after Parse.
func (a Archetype) clone() Archetype {
	a.Weaknesses = append([]domain.Weapon(nil), a.Weaknesses...)
	return a
}

// ArchetypeOf returns the archetype of a monster. IDs outside the universe have none.
func (t *Table) ArchetypeOf(id domain.TokenID) (Archetype, bool) {
	a, ok := t.lookup(id)
	if !ok {
		return Archetype{}, false
	}
	return a.clone(), true
}

// IsWeakTo reports whether weapon w can slay monster id. The answer is defined (false)
// for every ID, including those outside the universe.
func (t *Table) IsWeakTo(id domain.TokenID, w domain.Weapon) bool {
	a, ok := t.lookup(id)
	if !ok {
		return false
	}
	return a.WeakTo(w)
}

// Archetypes returns a copy of the bestiary in hash order.
func (t *Table) Archetypes() []Archetype {
	out := make([]Archetype, len(t.archetypes))
	for i, a := range t.archetypes {
		out[i] = a.clone()
	}
	return out
}
