package token

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/solana/system"
)

// AssociatedTokenAccountProgramKey is ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL.
var AssociatedTokenAccountProgramKey = mustDecode("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// GetAssociatedAccount derives the canonical token account of owner for mint.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(owner, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(AssociatedTokenAccountProgramKey, owner, ProgramKey, mint)
}

// CreateAssociatedTokenAccount returns the instruction creating the associated
// token account of owner for mint, funded by payer, along with its address.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/0639953c7dd0f5228c3ceda3ba68fece3b46ff1d/associated-token-account/program/src/lib.rs#L54
func CreateAssociatedTokenAccount(payer, owner, mint ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	address, err := GetAssociatedAccount(owner, mint)
	if err != nil {
		return solana.Instruction{}, nil, err
	}

	accounts := []solana.AccountMeta{
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(address, false),
		solana.NewReadonlyAccountMeta(owner, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	}
	return solana.NewInstruction(AssociatedTokenAccountProgramKey, nil, accounts...), address, nil
}
