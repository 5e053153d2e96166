package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseEther converts a decimal ether amount ("0.1", "2", "0.049") to wei.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/eE") {
		return nil, fmt.Errorf("%w: ether amount %q", ErrInvalidInput, s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: ether amount %q", ErrInvalidInput, s)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative ether amount %q", ErrInvalidInput, s)
	}
	perEther, _ := new(big.Int).SetString(WeiPerEther, 10)
	r.Mul(r, new(big.Rat).SetInt(perEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: ether amount %q has more than 18 decimals", ErrInvalidInput, s)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FormatEther renders wei as a decimal ether string without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	perEther, _ := new(big.Int).SetString(WeiPerEther, 10)
	s := new(big.Rat).SetFrac(wei, perEther).FloatString(18)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// EtherFloat approximates wei as ether for gauges and logs. Never use it for accounting.
func EtherFloat(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	perEther, _ := new(big.Float).SetString(WeiPerEther)
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), perEther).Float64()
	return f
}
