package submit

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/testutil"
)

func TestLoadKeypairWallet(t *testing.T) {
	key := testutil.GenerateSolanaKeypair(t)

	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	raw, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, raw, 0600))

	wallet, err := LoadKeypairWallet(path)
	require.NoError(t, err)
	assert.EqualValues(t, key.Public(), wallet.PublicKey())

	txn := solana.NewTransaction(wallet.PublicKey(), newInstruction(t))
	require.NoError(t, wallet.SignTransactions(context.Background(), []*solana.Transaction{&txn}))
	assert.True(t, txn.IsSigned())
	assert.True(t, ed25519.Verify(wallet.PublicKey(), txn.Message.Marshal(), txn.Signatures[0][:]))
}

func TestLoadKeypairWallet_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadKeypairWallet(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	for name, contents := range map[string]string{
		"not json":     "abc",
		"wrong length": "[1,2,3]",
		"out of range": "[" + repeat("300,", 63) + "300]",
		"mismatched":   "[" + repeat("1,", 63) + "1]",
	} {
		path := filepath.Join(dir, "id.json")
		require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

		_, err := LoadKeypairWallet(path)
		assert.True(t, errors.Is(err, ErrInvalidKeypair), name)
	}
}

func repeat(s string, n int) string {
	var res string
	for i := 0; i < n; i++ {
		res += s
	}
	return res
}
