package candymachine

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/candy-drop/pkg/solana"
)

func TestErrorCodes(t *testing.T) {
	assert.EqualValues(t, 6000, ErrIncorrectOwner)
	assert.EqualValues(t, 6010, ErrCandyMachineEmpty)
	assert.EqualValues(t, 6011, ErrCandyMachineNotLive)
	assert.EqualValues(t, 6016, ErrNoWhitelistToken)
	assert.EqualValues(t, 6024, ErrSuspiciousTransaction)
	assert.Contains(t, ErrCandyMachineEmpty.Error(), "candy machine is empty")
}

func TestErrorFromTransaction(t *testing.T) {
	txErr, err := solana.ParseTransactionError(map[string]interface{}{
		"InstructionError": []interface{}{
			float64(4),
			map[string]interface{}{"Custom": float64(6011)},
		},
	})
	require.NoError(t, err)

	code, ok := ErrorFromTransaction(errors.Wrap(txErr, "mint failed"))
	require.True(t, ok)
	assert.Equal(t, ErrCandyMachineNotLive, code)

	_, ok = ErrorFromTransaction(solana.NewTransactionError(solana.TransactionErrorBlockhashNotFound))
	assert.False(t, ok)

	_, ok = ErrorFromTransaction(solana.CustomError(1))
	assert.False(t, ok)
}
