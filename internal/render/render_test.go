package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
)

var slayer = domain.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func aliveSnapshot() Snapshot {
	return Snapshot{
		ID:         1,
		Minted:     true,
		Name:       "Foo",
		Archetype:  "werewolf",
		Weaknesses: []string{"Katana", "Long Sword"},
	}
}

func TestRender_Deterministic(t *testing.T) {
	first, err := Render(aliveSnapshot())
	require.NoError(t, err)
	second, err := Render(aliveSnapshot())
	require.NoError(t, err)
	assert.Equal(t, first.DataURI, second.DataURI)
}

func TestRender_RoundTrip(t *testing.T) {
	md, err := Render(aliveSnapshot())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(md.DataURI, JSONURIPrefix))

	doc, err := Decode(md.DataURI)
	require.NoError(t, err)
	assert.Equal(t, md.Document, doc)
	assert.Equal(t, "Monsters #1: Foo", doc.Name)

	svg, err := DecodeImage(doc.Image)
	require.NoError(t, err)
	assert.Equal(t, md.SVG, string(svg))
	assert.Contains(t, md.SVG, `fill="black"`)
	assert.Contains(t, md.SVG, ">Foo<")
	assert.Contains(t, md.SVG, ">Long Sword<")
	assert.Contains(t, md.SVG, "#1 Werewolf")
}

func TestRender_SlainDiffersFromAlive(t *testing.T) {
	before, err := Render(aliveSnapshot())
	require.NoError(t, err)

	s := aliveSnapshot()
	s.Name = "NewName"
	s.Slain = &Slaying{Slayer: slayer, LootID: 528, Weapon: "Long Sword"}
	after, err := Render(s)
	require.NoError(t, err)

	assert.NotEqual(t, before.DataURI, after.DataURI)
	assert.Equal(t, "Monsters #1: NewName", after.Document.Name)
	assert.Contains(t, after.SVG, SlainBackground)
	assert.Contains(t, after.SVG, LabelSlain)
	assert.Contains(t, after.SVG, "Long Sword (Loot #528)")
	assert.Contains(t, after.SVG, slayer.Short())
	assert.NotContains(t, after.SVG, LabelWeakTo)
	assert.Contains(t, after.Document.Attributes, Attribute{TraitType: TraitLoot, Value: "528"})
	assert.Contains(t, after.Document.Description, slayer.Hex())
}

func TestRender_Unclaimed(t *testing.T) {
	md, err := Render(Snapshot{ID: 9999, Archetype: "lich", Weaknesses: []string{"Book"}})
	require.NoError(t, err)
	assert.Equal(t, "Monsters #9999", md.Document.Name)
	assert.Contains(t, md.SVG, UnclaimedBackground)
	assert.Contains(t, md.SVG, LabelUnclaimed)
	assert.Contains(t, md.Document.Attributes, Attribute{TraitType: TraitStatus, Value: "Unclaimed"})
}

func TestRender_OutOfRange(t *testing.T) {
	for _, id := range []domain.TokenID{0, -3, 10001} {
		_, err := Render(Snapshot{ID: id})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "id %d", id)
	}
}

func TestRender_EscapesName(t *testing.T) {
	s := aliveSnapshot()
	s.Name = `<script>&"`
	md, err := Render(s)
	require.NoError(t, err)
	assert.NotContains(t, md.SVG, "<script>")
	assert.Contains(t, md.SVG, "&lt;script&gt;&amp;&#34;")

	doc, err := Decode(md.DataURI)
	require.NoError(t, err)
	assert.Equal(t, "Monsters #1: <script>&\"", doc.Name)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("data:text/plain;base64,AAAA")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Decode(JSONURIPrefix + "!!!")
	assert.Error(t, err)

	_, err = DecodeImage("not a uri")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
