package domain

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	wrapped := fmt.Errorf("slay: %w", fmt.Errorf("%w: %s", ErrIneligibleTarget, ErrMsgImmune))
	assert.Equal(t, ErrMsgIneligibleTarget, ErrorKind(wrapped))
	assert.Equal(t, ErrMsgNotFound, ErrorKind(fmt.Errorf("%w: x", ErrNotFound)))
	assert.Equal(t, ErrMsgInternal, ErrorKind(errors.New("connection reset")))
}

func TestEtherFloat(t *testing.T) {
	assert.InDelta(t, 0.1, EtherFloat(MinPrice()), 1e-12)
	assert.Equal(t, float64(0), EtherFloat(nil))
	assert.InDelta(t, 2.5, EtherFloat(new(big.Int).Mul(big.NewInt(25), MinPrice())), 1e-12)
}
