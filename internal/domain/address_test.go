package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress_ChecksumRoundTrip(t *testing.T) {
	a, err := ParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", a.Hex())

	b, err := ParseAddress("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no prefix", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{"too short", "0x5aaeb6053f3e94c9"},
		{"too long", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00"},
		{"not hex", "0xzzaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAddress_JSON(t *testing.T) {
	a := MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	data, err := json.Marshal(struct {
		Owner Address `json:"owner"`
	}{a})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}`, string(data))

	var decoded struct {
		Owner Address `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded.Owner)
}

func TestAddressFromBytes_TakesLowWord(t *testing.T) {
	word := make([]byte, 32)
	word[31] = 0x01
	word[12] = 0xff
	a := AddressFromBytes(word)
	assert.Equal(t, byte(0xff), a[0])
	assert.Equal(t, byte(0x01), a[19])
	assert.True(t, AddressFromBytes(make([]byte, 32)).IsZero())
}

func TestAddress_Common(t *testing.T) {
	a := MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	c := a.Common()
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", c.Hex())
	assert.Equal(t, a, Address(c))
}
