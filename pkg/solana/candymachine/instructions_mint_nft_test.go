package candymachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/candy-drop/pkg/solana"
)

func TestNewMintNftInstruction(t *testing.T) {
	accounts := &MintNftInstructionAccounts{
		CandyMachine:        newKey(t),
		CandyMachineCreator: newKey(t),
		Payer:               newKey(t),
		Wallet:              newKey(t),
		Metadata:            newKey(t),
		Mint:                newKey(t),
		MintAuthority:       newKey(t),
		UpdateAuthority:     newKey(t),
		MasterEdition:       newKey(t),
	}

	ix := NewMintNftInstruction(DEFAULT_PROGRAM_ID, accounts, &MintNftInstructionArgs{CreatorBump: 254})

	assert.EqualValues(t, DEFAULT_PROGRAM_ID, ix.Program)
	assert.Equal(t, []byte{0xd3, 0x39, 0x06, 0xa7, 0x0f, 0xdb, 0x23, 0xfb, 254}, ix.Data)
	assert.Len(t, ix.Accounts, 16)

	expected := []struct {
		key      []byte
		writable bool
		signer   bool
	}{
		{accounts.CandyMachine, true, false},
		{accounts.CandyMachineCreator, false, false},
		{accounts.Payer, true, true},
		{accounts.Wallet, true, false},
		{accounts.Metadata, true, false},
		{accounts.Mint, true, false},
		{accounts.MintAuthority, false, true},
		{accounts.UpdateAuthority, false, true},
		{accounts.MasterEdition, true, false},
		{METADATA_PROGRAM_ID, false, false},
		{SPL_TOKEN_PROGRAM_ID, false, false},
		{SYSTEM_PROGRAM_ID, false, false},
		{SYSVAR_RENT_PUBKEY, false, false},
		{SYSVAR_CLOCK_PUBKEY, false, false},
		{SYSVAR_RECENT_BLOCKHASHES_PUBKEY, false, false},
		{SYSVAR_INSTRUCTIONS_PUBKEY, false, false},
	}
	for i, e := range expected {
		assert.EqualValues(t, e.key, ix.Accounts[i].PublicKey, "account %d", i)
		assert.Equal(t, e.writable, ix.Accounts[i].IsWritable, "account %d", i)
		assert.Equal(t, e.signer, ix.Accounts[i].IsSigner, "account %d", i)
	}
}

func TestNewMintNftInstruction_RemainingAccounts(t *testing.T) {
	gatewayToken := newKey(t)
	burnAuthority := newKey(t)

	accounts := &MintNftInstructionAccounts{
		CandyMachine:         newKey(t),
		CandyMachineCreator:  newKey(t),
		Payer:                newKey(t),
		Wallet:               newKey(t),
		Metadata:             newKey(t),
		Mint:                 newKey(t),
		MintAuthority:        newKey(t),
		UpdateAuthority:      newKey(t),
		MasterEdition:        newKey(t),
		TokenMetadataProgram: newKey(t),
		RemainingAccounts: []solana.AccountMeta{
			solana.NewAccountMeta(gatewayToken, false),
			solana.NewReadonlyAccountMeta(burnAuthority, true),
		},
	}

	ix := NewMintNftInstruction(DEFAULT_PROGRAM_ID, accounts, &MintNftInstructionArgs{CreatorBump: 1})
	assert.Len(t, ix.Accounts, 18)
	assert.EqualValues(t, accounts.TokenMetadataProgram, ix.Accounts[9].PublicKey)
	assert.EqualValues(t, gatewayToken, ix.Accounts[16].PublicKey)
	assert.True(t, ix.Accounts[16].IsWritable)
	assert.EqualValues(t, burnAuthority, ix.Accounts[17].PublicKey)
	assert.True(t, ix.Accounts[17].IsSigner)
	assert.False(t, ix.Accounts[17].IsWritable)
}
