package drop

import (
	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/solana"
)

var (
	// ErrDerivationExhausted is returned when no bump yields a valid program
	// address for a set of seeds.
	ErrDerivationExhausted = solana.ErrDerivationExhausted

	// ErrNotEligible is returned when a drop snapshot indicates a mint would
	// be rejected. It's advisory: the program re-validates every rule.
	ErrNotEligible = errors.New("drop is not eligible for minting")

	// ErrStateDecode is returned when a drop or metadata account is missing,
	// owned by an unexpected program, or malformed.
	ErrStateDecode = errors.New("failed to decode drop state")
)
