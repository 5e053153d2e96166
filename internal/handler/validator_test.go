package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Ether(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"whole ether", "1", false},
		{"mint price", "0.1", false},
		{"eighteen decimals", "0.000000000000000001", false},
		{"zero", "0", false},
		{"empty", "", true},
		{"nineteen decimals", "0.0000000000000000001", true},
		{"negative", "-1", true},
		{"garbage", "ten", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(MintRequest{Value: tt.value})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_EthAddr(t *testing.T) {
	assert.NoError(t, ValidateRequest(TransferRequest{To: testHolder}))
	assert.Error(t, ValidateRequest(TransferRequest{To: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe"}))
	assert.Error(t, ValidateRequest(TransferRequest{To: ""}))
}

func TestFieldErrors(t *testing.T) {
	err := ValidateRequest(TransferRequest{To: "nope"})
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Equal(t, "Must be a 0x-prefixed 20-byte hex address", fields["to"])

	err = ValidateRequest(SlayRequest{})
	require.Error(t, err)
	assert.Equal(t, "This field is required", FieldErrors(err)["loot_id"])

	assert.Nil(t, FieldErrors(nil))
	assert.Equal(t, "Invalid request format", FieldErrors(errors.New("boom"))["error"])
}
