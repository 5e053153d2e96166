package monster

import (
	"fmt"

	"github.com/osse101/Monsters_Go/internal/domain"
)

func tokenIDInvalid(id domain.TokenID) error {
	return fmt.Errorf("%w: %s: %d", domain.ErrInvalidInput, domain.ErrMsgTokenIDInvalid, id)
}
