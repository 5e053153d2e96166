// Package render derives token metadata from an immutable snapshot of a monster.
// Output is a data URI wrapping a JSON document whose image is itself a data URI
// wrapping an SVG. Identical snapshots always produce identical bytes.
package render

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// Snapshot is everything the renderer may know about a token.
type Snapshot struct {
	ID         domain.TokenID
	Minted     bool
	Name       string
	Archetype  string
	Weaknesses []string
	Slain      *Slaying
}

// Slaying describes how a slain monster died.
type Slaying struct {
	Slayer domain.Address
	LootID domain.LootID
	Weapon string
}

// Attribute is one metadata trait.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Document is the decoded token metadata.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Metadata is the rendered output of one token.
type Metadata struct {
	Document Document
	SVG      string
	DataURI  string
}

// title is built per call: a Caser is stateful and not safe for concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Render produces the metadata for s. IDs outside the universe are rejected; in-range
// IDs that were never minted render as unclaimed.
func Render(s Snapshot) (Metadata, error) {
	if !s.ID.Valid() {
		return Metadata{}, fmt.Errorf("%w: %s: %d", domain.ErrInvalidInput, domain.ErrMsgTokenIDInvalid, s.ID)
	}

	svg := drawSVG(s)
	doc := Document{
		Name:        displayName(s),
		Description: description(s),
		Image:       SVGURIPrefix + base64.StdEncoding.EncodeToString([]byte(svg)),
		Attributes:  attributes(s),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return Metadata{}, fmt.Errorf("failed to encode metadata for %d: %w", s.ID, err)
	}
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	return Metadata{
		Document: doc,
		SVG:      svg,
		DataURI:  JSONURIPrefix + base64.StdEncoding.EncodeToString(payload),
	}, nil
}

func status(s Snapshot) string {
	switch {
	case !s.Minted:
		return domain.StatusUnclaimed
	case s.Slain != nil:
		return domain.StatusSlain
	default:
		return domain.StatusAlive
	}
}

func displayName(s Snapshot) string {
	base := fmt.Sprintf("%s #%d", domain.CollectionName, s.ID)
	if s.Name == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, s.Name)
}

func description(s Snapshot) string {
	archetype := title(s.Archetype)
	switch status(s) {
	case domain.StatusUnclaimed:
		return fmt.Sprintf("An unclaimed %s waits in the dark.", archetype)
	case domain.StatusSlain:
		return fmt.Sprintf("%s, slain by %s with a %s.", archetype, s.Slain.Slayer.Hex(), s.Slain.Weapon)
	default:
		return fmt.Sprintf("A living %s. Weak to %s.", archetype, strings.Join(s.Weaknesses, ", "))
	}
}

func attributes(s Snapshot) []Attribute {
	attrs := []Attribute{
		{TraitType: TraitArchetype, Value: title(s.Archetype)},
		{TraitType: TraitStatus, Value: title(status(s))},
	}
	for _, w := range s.Weaknesses {
		attrs = append(attrs, Attribute{TraitType: TraitWeakness, Value: w})
	}
	if s.Slain != nil {
		attrs = append(attrs,
			Attribute{TraitType: TraitWeapon, Value: s.Slain.Weapon},
			Attribute{TraitType: TraitLoot, Value: fmt.Sprintf("%d", s.Slain.LootID)},
		)
	}
	return attrs
}

func palette(s Snapshot) (bg, fg string) {
	switch status(s) {
	case domain.StatusUnclaimed:
		return UnclaimedBackground, UnclaimedForeground
	case domain.StatusSlain:
		return SlainBackground, SlainForeground
	default:
		return AliveBackground, AliveForeground
	}
}

func drawSVG(s Snapshot) string {
	bg, fg := palette(s)

	lines := []string{fmt.Sprintf("#%d %s", s.ID, title(s.Archetype))}
	switch status(s) {
	case domain.StatusUnclaimed:
		lines = append(lines, LabelUnclaimed)
	case domain.StatusSlain:
		lines = append(lines,
			s.Name,
			LabelSlain,
			fmt.Sprintf("%s %s", LabelSlainBy, s.Slain.Slayer.Short()),
			fmt.Sprintf("%s %s (Loot #%d)", LabelWith, s.Slain.Weapon, s.Slain.LootID),
		)
	default:
		lines = append(lines, s.Name)
	}
	if s.Slain == nil {
		lines = append(lines, LabelWeakTo)
		lines = append(lines, s.Weaknesses...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMinYMin meet" viewBox="0 0 %d %d">`, CanvasSize, CanvasSize)
	fmt.Fprintf(&b, `<style>.base { fill: %s; font-family: %s; font-size: %dpx; }</style>`, fg, FontFamily, FontSize)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s" />`, bg)
	y := LineHeight
	for _, line := range lines {
		if line != "" {
			fmt.Fprintf(&b, `<text x="10" y="%d" class="base">%s</text>`, y, html.EscapeString(line))
		}
		y += LineHeight
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// Decode recovers the document from a metadata data URI.
func Decode(dataURI string) (Document, error) {
	payload, err := decodeURI(dataURI, JSONURIPrefix)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}, fmt.Errorf("%s: %w", ErrMsgDecodeFailed, err)
	}
	return doc, nil
}

// DecodeImage returns the raw SVG carried by a document's image field.
func DecodeImage(image string) ([]byte, error) {
	return decodeURI(image, SVGURIPrefix)
}

func decodeURI(uri, prefix string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgMissingPrefix, prefix)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeFailed, err)
	}
	return raw, nil
}
