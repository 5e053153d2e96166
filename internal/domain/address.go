package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength is the byte length of an account address
const AddressLength = common.AddressLength

// Address identifies an account: a minter, owner, slayer or the administrator.
type Address common.Address

// ZeroAddress is never a valid owner.
var ZeroAddress Address

// ParseAddress parses a 0x-prefixed hex address. Checksum casing is accepted but not enforced.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[:2] != "0x" && s[:2] != "0X") {
		return ZeroAddress, fmt.Errorf("%w: address %q must start with 0x", ErrInvalidInput, s)
	}
	if !common.IsHexAddress(s) {
		return ZeroAddress, fmt.Errorf("%w: address %q must be %d hex-encoded bytes", ErrInvalidInput, s, AddressLength)
	}
	return Address(common.HexToAddress(s)), nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes takes the last 20 bytes of b (an ABI-encoded word is 32 bytes).
func AddressFromBytes(b []byte) Address {
	return Address(common.BytesToAddress(b))
}

// Common converts to the go-ethereum address type.
func (a Address) Common() common.Address {
	return common.Address(a)
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Hex returns the EIP-55 checksummed representation.
func (a Address) Hex() string {
	return common.Address(a).Hex()
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// Short returns an abbreviated form like 0x5aAe…BeAed for display.
func (a Address) Short() string {
	h := a.Hex()
	return h[:6] + "…" + h[len(h)-4:]
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
