package submit

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/solana"
)

var (
	ErrUnsignedTransaction = errors.New("transaction is missing required signatures")
	ErrInvalidKeypair      = errors.New("invalid keypair file")
	ErrTransactionTooLarge = errors.New("transaction exceeds the maximum size")
)

// SubmissionError is returned when a batch could not be built, signed,
// submitted or confirmed. Signatures holds the batches confirmed before the
// failure, in order.
type SubmissionError struct {
	BatchIndex int
	Signatures []solana.Signature
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("batch %d: %v", e.BatchIndex, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
