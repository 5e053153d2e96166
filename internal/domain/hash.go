package domain

import (
	"math/big"
	"strconv"

	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the legacy Keccak-256 digest used by Ethereum (not NIST SHA3-256).
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Pluck deterministically picks an index in [0, n) from keccak256(prefix + decimal(id)),
// read as a big-endian 256-bit integer. This is how Loot assigns items to bags.
func Pluck(prefix string, id int, n int) int {
	if n <= 0 {
		return 0
	}
	sum := Keccak256([]byte(prefix + strconv.Itoa(id)))
	v := new(big.Int).SetBytes(sum)
	return int(v.Mod(v, big.NewInt(int64(n))).Int64())
}
