package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Serialized by the Solana SDK for sdkTransaction. The SDK test keypair pairs
// its seed with an unrelated public key; sdkEncodedDerivedKey is the same
// transaction signed by the key actually derived from the seed.
//
// Source: https://github.com/solana-labs/solana/blob/14339dec0a960e8161d1165b6a8e5cfb73e78f23/sdk/src/transaction.rs#L523
const (
	sdkEncoded           = "AUc7Cbu+gZalFSGeSFdukHhP7oSGaSdmdNEd5ZokaSysdoMWfIOzjrAbdaBZZuDMAfyNAogAJdrhgVya+jthsgoBAAEDnON0wdcmjhYIDuXvd10F2qEjAyEAJGSe/CGhYbk+WWMBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="
	sdkEncodedDerivedKey = "ATMfBMZ8phHEheLph8K9TJhRKhnE4qNZvWiXdUdJRmlTCRsQjWmW2CkQJeRHBCcsqFm2gynjL40M9mTe0Dxp4QIBAAEDfEya6wnC7f3Cv53qnOEywwIJ928rIdqAlfXYI1adXroBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="
)

// A signed transaction captured from mainnet.
const mainnetSample = "AaZAGNONKTsNypCfvwHGipcWmAX/J03VfLQEHgMDSuHz0ktydqlLb7I4tZnX0Yw8KMTbma28M+yiZPaRolOJGgwBAAgQCR2hNbdxjAiYwC9CSEo2Vso3yq8OXlgoCbepyseaRXoIFE8MTz2ZtOsdNl55fj/zi0S+ArjIP4zJ3Y+MC4tKyQu7s1JPy6Hur6YbU0nF+1XBJYwii/dKtLsNFU/pTo19J7jOgutpJBZbNIhC5ppqC/OYlbzW1KqamkV3p+cslAoyBJxvWrSMXX+X0Ih0+sEzarslIYSV0T/NuLFcjpX8S7ajCdht+3+POhvGcGFzDyc4kIgjN/SAdypJM1Grs+eEtzXhQGM4VMy0p0J2CiOH+k2kwfya5F7fSaYXWOi3CJUGp9UXGSxWjuCKhF9z0peIzwNcMUWyGrNE2AYuqUAAAAan1RcZLFxRIYzJTD1K8X9Y2u4Im6H9ROPb2YoAAAAABt324ddloZPZy+FGzut5rBy0he1fWzeROoz1hX7/AKlDDB9w5G7eh4xhLJIgxblM0E4dxW+ZTABRcCVBt2LcH8b6evO+2606PWXzaqvJdDGxu+TC0vbg5HymAgNFL11hDcYoaKd+VYB6HNWIyaKadms+4q7NwH3gjP6RB91LMWUAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAMGRm/lIRcy/+ytunLDm+e8jOW7xfcSayxDmzpAAAAAjJclj04kifG7PRApFI4NgwtaE5na/xCEBI572Nvp+FmMVCZzhQC2pwD9u6aAm8haUDNRSZG/a7c1U/ltYtc+KAUNAwIHAAQEAAAADgAJA+gDAAAAAAAADgAFAkjoAQAPBwADCgsNCQgBAQwLAAUBBAwMBgwMAwlcCAoCAAAAmhMJCgIAAAAAAUgAAABlmEW1THFmZqyjBehuSli5bMSJBNiQMkZcr19LINSM4KF/whE1IayV174tmVwC9MMlQSmG3j6aJVhIDGMUITUNXRMTAAAAAAA="

var (
	sdkSeed      = []byte{48, 83, 2, 1, 1, 48, 5, 6, 3, 43, 101, 112, 4, 34, 4, 32, 255, 101, 36, 24, 124, 23, 167, 21, 132, 204, 155, 5, 185, 58, 121, 75}
	sdkPublicKey = []byte{156, 227, 116, 193, 215, 38, 142, 22, 8, 14, 229, 239, 119, 93, 5, 218, 161, 35, 3, 33, 0, 36, 100, 158, 252, 33, 161, 97, 185, 62, 89, 99}
	sdkProgram   = ed25519.PublicKey{2, 2, 2, 4, 5, 6, 7, 8, 9, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9, 8, 7, 6, 5, 4, 2, 2, 2}
	sdkRecipient = ed25519.PublicKey{1, 1, 1, 4, 5, 6, 7, 8, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 8, 7, 6, 5, 4, 1, 1, 1}
)

func sdkTransaction(t *testing.T, signer ed25519.PrivateKey) []byte {
	txn := NewTransaction(
		public(signer),
		NewInstruction(sdkProgram, []byte{1, 2, 3}, NewAccountMeta(public(signer), true), NewAccountMeta(sdkRecipient, false)),
	)
	require.NoError(t, txn.Sign(signer))
	return txn.Marshal()
}

func TestTransaction_SDKEncoding(t *testing.T) {
	mismatched := ed25519.PrivateKey(append(slices.Clone(sdkSeed), sdkPublicKey...))
	assert.Equal(t, sdkEncoded, base64.StdEncoding.EncodeToString(sdkTransaction(t, mismatched)))

	derived := ed25519.NewKeyFromSeed(sdkSeed)
	assert.Equal(t, sdkEncodedDerivedKey, base64.StdEncoding.EncodeToString(sdkTransaction(t, derived)))
}

func TestTransaction_UnmarshalMainnetSample(t *testing.T) {
	raw, err := base64.StdEncoding.DecodeString(mainnetSample)
	require.NoError(t, err)

	var txn Transaction
	require.NoError(t, txn.Unmarshal(raw))
	assert.Equal(t, raw, txn.Marshal())
	assert.Len(t, txn.Signatures, int(txn.Message.Header.NumSignatures))
}

func TestTransaction_UnmarshalSigned(t *testing.T) {
	keys := generateKeys(t, 3)
	payer, program := keys[0], keys[1]

	for _, account := range []ed25519.PublicKey{nil, public(keys[2]), public(payer)} {
		txn := NewTransaction(public(payer), NewInstruction(public(program), []byte{1, 2, 3}, NewAccountMeta(account, false)))
		txn.SetBlockhash(Blockhash{7})
		require.NoError(t, txn.Sign(payer))

		var decoded Transaction
		require.NoError(t, decoded.Unmarshal(txn.Marshal()))
		assert.Equal(t, txn.Signatures, decoded.Signatures)
		assert.Equal(t, txn.Message.Marshal(), decoded.Message.Marshal())
		assert.True(t, decoded.IsSigned())
	}
}

func TestTransaction_UnmarshalBadIndices(t *testing.T) {
	keys := generateKeys(t, 2)

	build := func() Transaction {
		return NewTransaction(public(keys[0]), NewInstruction(public(keys[1]), nil, NewAccountMeta(public(keys[0]), true)))
	}

	txn := build()
	txn.Message.Instructions[0].ProgramIndex = 2
	var decoded Transaction
	assert.Error(t, decoded.Unmarshal(txn.Marshal()))

	txn = build()
	txn.Message.Instructions[0].Accounts = []byte{2}
	assert.Error(t, decoded.Unmarshal(txn.Marshal()))
}

// expectedLayout describes a compiled message: the account list in order,
// the header, and each instruction's program and account indices.
type expectedLayout struct {
	accounts            []ed25519.PrivateKey
	readonlySigned      byte
	readonly            byte
	programIndices      []byte
	instructionAccounts [][]byte
}

func assertLayout(t *testing.T, txn Transaction, signers int, expected expectedLayout) {
	require.Len(t, txn.Message.Accounts, len(expected.accounts))
	for i, key := range expected.accounts {
		assert.Equal(t, public(key), txn.Message.Accounts[i], "account %d", i)
	}

	assert.EqualValues(t, signers, txn.Message.Header.NumSignatures)
	assert.Equal(t, expected.readonlySigned, txn.Message.Header.NumReadonlySigned)
	assert.Equal(t, expected.readonly, txn.Message.Header.NumReadOnly)

	require.Len(t, txn.Message.Instructions, len(expected.programIndices))
	for i, ix := range txn.Message.Instructions {
		assert.Equal(t, expected.programIndices[i], ix.ProgramIndex, "instruction %d", i)
		assert.Equal(t, expected.instructionAccounts[i], ix.Accounts, "instruction %d", i)
	}

	require.Len(t, txn.Signatures, signers)
	message := txn.Message.Marshal()
	for i := 0; i < signers; i++ {
		assert.True(t, ed25519.Verify(txn.Message.Accounts[i], message, txn.Signatures[i][:]), "signature %d", i)
	}
}

func sortedKeys(t *testing.T, n int) []ed25519.PrivateKey {
	keys := generateKeys(t, n)
	slices.SortFunc(keys, func(a, b ed25519.PrivateKey) int {
		return bytes.Compare(public(a), public(b))
	})
	return keys
}

func TestNewTransaction_AccountOrdering(t *testing.T) {
	keys := generateKeys(t, 6)
	payer, program, a, b, c, d := keys[0], keys[1], keys[2], keys[3], keys[4], keys[5]

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			[]byte{9},
			NewReadonlyAccountMeta(public(a), true),
			NewReadonlyAccountMeta(public(b), false),
			NewAccountMeta(public(c), false),
			NewAccountMeta(public(d), true),
		),
	)

	// Signing order does not matter.
	require.NoError(t, txn.Sign(a, d, payer))
	assert.Equal(t, []byte{9}, txn.Message.Instructions[0].Data)

	assertLayout(t, txn, 3, expectedLayout{
		accounts:            []ed25519.PrivateKey{payer, d, a, c, b, program},
		readonlySigned:      1,
		readonly:            2,
		programIndices:      []byte{5},
		instructionAccounts: [][]byte{{2, 4, 3, 1}},
	})
}

func TestNewTransaction_MergesPermissions(t *testing.T) {
	payer, program := generateKeys(t, 1)[0], generateKeys(t, 1)[0]
	keys := sortedKeys(t, 4)

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			nil,
			NewReadonlyAccountMeta(public(keys[0]), true),
			NewReadonlyAccountMeta(public(keys[1]), false),
			NewAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[3]), true),

			// keys[0] becomes writable and keys[1] becomes a signer.
			NewAccountMeta(public(keys[0]), false),
			NewReadonlyAccountMeta(public(keys[1]), true),

			// Repeating with fewer permissions has no effect.
			NewReadonlyAccountMeta(public(keys[2]), false),
			NewReadonlyAccountMeta(public(keys[3]), false),
		),
	)
	require.NoError(t, txn.Sign(keys[3], keys[1], payer, keys[0]))

	assertLayout(t, txn, 4, expectedLayout{
		accounts:            []ed25519.PrivateKey{payer, keys[0], keys[3], keys[1], keys[2], program},
		readonlySigned:      1,
		readonly:            1,
		programIndices:      []byte{5},
		instructionAccounts: [][]byte{{1, 3, 4, 2, 1, 3, 4, 2}},
	})
}

func TestNewTransaction_MultipleInstructions(t *testing.T) {
	roots := sortedKeys(t, 3)
	payer, first, second := roots[0], roots[1], roots[2]
	keys := sortedKeys(t, 6)

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(second),
			[]byte{1},
			NewReadonlyAccountMeta(public(keys[0]), true),
			NewReadonlyAccountMeta(public(keys[1]), false),
			NewAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[3]), true),
		),
		NewInstruction(
			public(first),
			[]byte{2},
			NewReadonlyAccountMeta(public(keys[3]), false),
			NewReadonlyAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[0]), false),
			NewAccountMeta(public(keys[1]), true),
			NewAccountMeta(public(keys[4]), true),
			NewReadonlyAccountMeta(public(keys[5]), false),
		),
	)
	require.NoError(t, txn.Sign(keys[4], keys[3], keys[1], keys[0], payer))

	assertLayout(t, txn, 5, expectedLayout{
		accounts:            []ed25519.PrivateKey{payer, keys[0], keys[1], keys[3], keys[4], keys[2], keys[5], first, second},
		readonlySigned:      0,
		readonly:            3,
		programIndices:      []byte{8, 7},
		instructionAccounts: [][]byte{
			{1, 2, 5, 3},
			{3, 5, 1, 2, 4, 6},
		},
	})
}

func TestTransaction_RequiredSigners(t *testing.T) {
	keys := generateKeys(t, 4)
	payer, program, ephemeral, readonly := keys[0], keys[1], keys[2], keys[3]

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			nil,
			NewAccountMeta(public(ephemeral), true),
			NewReadonlyAccountMeta(public(readonly), false),
		),
	)

	assert.Equal(t, []ed25519.PublicKey{public(payer), public(ephemeral)}, txn.RequiredSigners())

	assert.False(t, txn.IsSigned())
	require.NoError(t, txn.Sign(ephemeral))
	assert.False(t, txn.IsSigned())
	require.NoError(t, txn.Sign(payer))
	assert.True(t, txn.IsSigned())

	assert.Error(t, txn.Sign(readonly))
	assert.Error(t, txn.Sign(generateKeys(t, 1)[0]))
}

func public(priv ed25519.PrivateKey) ed25519.PublicKey {
	return priv.Public().(ed25519.PublicKey)
}

func generateKeys(t *testing.T, n int) []ed25519.PrivateKey {
	keys := make([]ed25519.PrivateKey, n)
	for i := range keys {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		keys[i] = priv
	}
	return keys
}
