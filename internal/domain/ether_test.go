package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.1", MinPriceWei},
		{"0.049", "49000000000000000"},
		{"1", WeiPerEther},
		{"0", "0"},
		{"0.000000000000000001", "1"},
	}
	for _, tt := range tests {
		got, err := ParseEther(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestParseEther_Rejects(t *testing.T) {
	for _, in := range []string{"", "-1", "abc", "1/3", "1e18", "0.0000000000000000001"} {
		_, err := ParseEther(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0.1", FormatEther(MinPrice()))
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "980", FormatEther(new(big.Int).Mul(MinPrice(), big.NewInt(9800))))
}

func TestTokenRanges_PartitionUniverse(t *testing.T) {
	for id := MinTokenID - 1; id <= MaxTokenID+1; id++ {
		if !id.Valid() {
			assert.False(t, id.IsPublic() || id.IsReserved(), "id %d", id)
			continue
		}
		assert.True(t, id.IsPublic() != id.IsReserved(), "id %d", id)
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName(""))
	assert.True(t, ValidName("ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEF"))
	assert.False(t, ValidName("ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEFG"))
	assert.False(t, ValidName(string([]byte{0xff, 0xfe})))
}
