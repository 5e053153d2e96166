package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Error kinds
	ErrMsgNotFound            = "not found"
	ErrMsgAlreadyExists       = "already exists"
	ErrMsgUnauthorized        = "unauthorized"
	ErrMsgInvalidInput        = "invalid input"
	ErrMsgInvalidState        = "invalid state"
	ErrMsgIneligibleTarget    = "ineligible target"
	ErrMsgInsufficientPayment = "insufficient payment"
	ErrMsgInternal            = "internal"

	// Registry details
	ErrMsgAlreadyMinted     = "token already minted"
	ErrMsgTokenNotMinted    = "token not minted"
	ErrMsgTokenIDInvalid    = "token id invalid"
	ErrMsgInsufficientEther = "insufficient ether"
	ErrMsgNotMonsterOwner   = "not monster owner"
	ErrMsgNotLootOwner      = "not loot owner"
	ErrMsgNotAdministrator  = "caller is not the administrator"
	ErrMsgAlreadySlain      = "already slain"
	ErrMsgNotSlain          = "not slain"
	ErrMsgNameTooLong       = "name > 32 chars"
	ErrMsgNameNotUTF8       = "name is not valid utf-8"
	ErrMsgImmune            = "immune"
	ErrMsgZeroAddress       = "zero address"

	// Loot details
	ErrMsgLootNotFound = "loot does not exist"

	// Storage details
	ErrMsgNotDeployed = "registry not deployed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotFound            = errors.New(ErrMsgNotFound)
	ErrAlreadyExists       = errors.New(ErrMsgAlreadyExists)
	ErrUnauthorized        = errors.New(ErrMsgUnauthorized)
	ErrInvalidInput        = errors.New(ErrMsgInvalidInput)
	ErrInvalidState        = errors.New(ErrMsgInvalidState)
	ErrIneligibleTarget    = errors.New(ErrMsgIneligibleTarget)
	ErrInsufficientPayment = errors.New(ErrMsgInsufficientPayment)

	// ErrNotDeployed is returned by stores that have never been initialized by setup.
	ErrNotDeployed = errors.New(ErrMsgNotDeployed)
)

var errorKinds = []error{
	ErrNotFound,
	ErrAlreadyExists,
	ErrUnauthorized,
	ErrInvalidInput,
	ErrInvalidState,
	ErrIneligibleTarget,
	ErrInsufficientPayment,
	ErrNotDeployed,
}

// ErrorKind returns the message of the kind sentinel err wraps, or "internal".
func ErrorKind(err error) string {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ErrMsgInternal
}
