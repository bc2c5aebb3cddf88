package token

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/testutil"
)

func TestClient_GetAccount(t *testing.T) {
	sc := testutil.NewSolanaClient()
	keys := testutil.GenerateSolanaKeys(t, 3)
	mint, owner, address := keys[0], keys[1], keys[2]

	client := NewClient(sc, mint)
	assert.Equal(t, mint, client.Mint())

	_, err := client.GetAccount(address, solana.CommitmentConfirmed)
	assert.Equal(t, ErrAccountNotFound, err)

	account := &Account{Mint: mint, Owner: owner, Amount: 1, State: AccountStateInitialized}
	sc.SetAccount(address, solana.AccountInfo{Owner: ProgramKey, Data: account.Marshal()})

	actual, err := client.GetAccount(address, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, account, actual)
}

func TestClient_GetAccount_Invalid(t *testing.T) {
	sc := testutil.NewSolanaClient()
	keys := testutil.GenerateSolanaKeys(t, 4)
	mint, otherMint, owner, address := keys[0], keys[1], keys[2], keys[3]

	client := NewClient(sc, mint)

	for _, info := range []solana.AccountInfo{
		{Owner: owner, Data: (&Account{Mint: mint, Owner: owner, State: AccountStateInitialized}).Marshal()},
		{Owner: ProgramKey, Data: []byte{1, 2, 3}},
		{Owner: ProgramKey, Data: (&Account{Mint: mint, Owner: owner}).Marshal()},
		{Owner: ProgramKey, Data: (&Account{Mint: otherMint, Owner: owner, State: AccountStateInitialized}).Marshal()},
	} {
		sc.SetAccount(address, info)

		_, err := client.GetAccount(address, solana.CommitmentConfirmed)
		assert.ErrorIs(t, err, ErrInvalidTokenAccount)
	}
}

func TestClient_GetAccount_RPCFailure(t *testing.T) {
	sc := testutil.NewSolanaClient()
	keys := testutil.GenerateSolanaKeys(t, 2)

	failure := errors.New("node unhealthy")
	sc.AccountErrors[base58.Encode(keys[1])] = failure

	_, err := NewClient(sc, keys[0]).GetAccount(keys[1], solana.CommitmentConfirmed)
	assert.ErrorIs(t, err, failure)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}
