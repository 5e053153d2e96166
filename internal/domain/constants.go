package domain

import "math/big"

// Collection identity
const (
	CollectionName   = "Monsters"
	CollectionSymbol = "MNST"
)

// Token ID space. The public and reserved ranges partition [MinTokenID, MaxTokenID].
const (
	MinTokenID         TokenID = 1
	MaxTokenID         TokenID = 10000
	MaxPublicTokenID   TokenID = 9800
	MinReservedTokenID TokenID = MaxPublicTokenID + 1
)

// Loot bag ID space of the external Loot contract
const (
	MinLootID LootID = 1
	MaxLootID LootID = 8000
)

// MaxNameLength is the maximum monster name length in bytes
const MaxNameLength = 32

// MinPriceWei is the public mint price (0.1 ether)
const MinPriceWei = "100000000000000000"

// WeiPerEther is the number of wei in one ether
const WeiPerEther = "1000000000000000000"

// LootContractMainnet is the address of the Loot contract on Ethereum mainnet
const LootContractMainnet = "0xff9c1b15b16263c61d017ee9f65c50e4ae0113d7"

// MinPrice returns the public mint price in wei. Each call returns a fresh value.
func MinPrice() *big.Int {
	v, _ := new(big.Int).SetString(MinPriceWei, 10)
	return v
}
