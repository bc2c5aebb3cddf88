package solana

import (
	"github.com/pkg/errors"
)

// Commitment is the level of cluster agreement a query or confirmation
// requires.
type Commitment string

const (
	confirmationStatusProcessed = "processed"
	confirmationStatusConfirmed = "confirmed"
	confirmationStatusFinalized = "finalized"
)

const (
	CommitmentProcessed Commitment = confirmationStatusProcessed
	CommitmentConfirmed Commitment = confirmationStatusConfirmed
	CommitmentFinalized Commitment = confirmationStatusFinalized
)

// CommitmentFromString parses a configured commitment level.
func CommitmentFromString(level string) (Commitment, error) {
	switch c := Commitment(level); c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return c, nil
	default:
		return "", errors.Errorf("unknown commitment level: %q", level)
	}
}

type SignatureStatus struct {
	Slot        uint64
	ErrorResult *TransactionError

	// Confirmations is nil once the transaction is rooted.
	Confirmations      *int
	ConfirmationStatus string
}

func (s SignatureStatus) Finalized() bool {
	return s.Confirmations == nil || s.ConfirmationStatus == confirmationStatusFinalized
}

func (s SignatureStatus) Confirmed() bool {
	switch {
	case s.Finalized(), s.ConfirmationStatus == confirmationStatusConfirmed:
		return true
	default:
		return *s.Confirmations > 0
	}
}

// Reached reports whether the status satisfies commitment.
func (s SignatureStatus) Reached(commitment Commitment) bool {
	switch commitment {
	case CommitmentProcessed:
		return true
	case CommitmentConfirmed:
		return s.Confirmed()
	case CommitmentFinalized:
		return s.Finalized()
	default:
		return false
	}
}
