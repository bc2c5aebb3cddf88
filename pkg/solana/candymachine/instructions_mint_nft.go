package candymachine

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/solana"
)

var MintNftInstructionDiscriminator = []byte{0xd3, 0x39, 0x06, 0xa7, 0x0f, 0xdb, 0x23, 0xfb}

const (
	MintNftInstructionArgsSize = 1 // creator_bump
)

type MintNftInstructionArgs struct {
	CreatorBump uint8
}

type MintNftInstructionAccounts struct {
	CandyMachine         ed25519.PublicKey
	CandyMachineCreator  ed25519.PublicKey
	Payer                ed25519.PublicKey
	Wallet               ed25519.PublicKey
	Metadata             ed25519.PublicKey
	Mint                 ed25519.PublicKey
	MintAuthority        ed25519.PublicKey
	UpdateAuthority      ed25519.PublicKey
	MasterEdition        ed25519.PublicKey
	TokenMetadataProgram ed25519.PublicKey

	// RemainingAccounts are appended after the fixed accounts in order. The
	// program reads them positionally for gateway, allow list and payment
	// token checks.
	RemainingAccounts []solana.AccountMeta
}

func NewMintNftInstruction(
	program ed25519.PublicKey,
	accounts *MintNftInstructionAccounts,
	args *MintNftInstructionArgs,
) solana.Instruction {
	data := make([]byte, 0, len(MintNftInstructionDiscriminator)+MintNftInstructionArgsSize)
	data = append(data, MintNftInstructionDiscriminator...)
	data = append(data, args.CreatorBump)

	metadataProgram := accounts.TokenMetadataProgram
	if metadataProgram == nil {
		metadataProgram = METADATA_PROGRAM_ID
	}

	metas := []solana.AccountMeta{
		{
			PublicKey:  accounts.CandyMachine,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.CandyMachineCreator,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Payer,
			IsWritable: true,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.Wallet,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Metadata,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Mint,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.MintAuthority,
			IsWritable: false,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.UpdateAuthority,
			IsWritable: false,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.MasterEdition,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  metadataProgram,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SPL_TOKEN_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSTEM_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSVAR_RENT_PUBKEY,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSVAR_CLOCK_PUBKEY,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSVAR_RECENT_BLOCKHASHES_PUBKEY,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSVAR_INSTRUCTIONS_PUBKEY,
			IsWritable: false,
			IsSigner:   false,
		},
	}
	metas = append(metas, accounts.RemainingAccounts...)

	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: metas,
	}
}
