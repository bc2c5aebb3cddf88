package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58/base58"

	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/solana/system"
)

// ProgramKey is the SPL token program.
var ProgramKey = mustDecode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// MintAccountSize is the packed length of a mint account.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L37
const MintAccountSize = 82

// Command is the leading byte of a token instruction.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L26
type Command byte

const (
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	CommandInitializeMultisig
	CommandTransfer
	CommandApprove
	CommandRevoke
	CommandSetAuthority
	CommandMintTo
)

// InitializeMint initializes mint with the given authorities. A nil
// freezeAuthority leaves the mint without one.
//
// Accounts: [writable] mint, [] rent sysvar.
func InitializeMint(mint, mintAuthority, freezeAuthority ed25519.PublicKey, decimals byte) solana.Instruction {
	data := make([]byte, 0, 2+2*ed25519.PublicKeySize+1)
	data = append(data, byte(CommandInitializeMint), decimals)
	data = append(data, mintAuthority...)
	data = appendOptionalKey(data, freezeAuthority)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

// Approve lets delegate move up to amount tokens out of source.
//
// Accounts: [writable] source, [] delegate, [signer] owner.
func Approve(source, delegate, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		amountData(CommandApprove, amount),
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(delegate, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

// Revoke clears the delegate of source.
//
// Accounts: [writable] source, [signer] owner.
func Revoke(source, owner ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandRevoke)},
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

// MintTo mints amount new tokens into dest.
//
// Accounts: [writable] mint, [writable] dest, [signer] mint authority.
func MintTo(mint, dest, authority ed25519.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		amountData(CommandMintTo, amount),
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

func amountData(cmd Command, amount uint64) []byte {
	return binary.LittleEndian.AppendUint64([]byte{byte(cmd)}, amount)
}

// appendOptionalKey encodes a COption<Pubkey> as used in instruction data: a
// one byte tag followed by the key, zeroed when absent.
func appendOptionalKey(dst []byte, key ed25519.PublicKey) []byte {
	if len(key) == 0 {
		dst = append(dst, 0)
		return append(dst, make([]byte, ed25519.PublicKeySize)...)
	}
	dst = append(dst, 1)
	return append(dst, key...)
}

func mustDecode(address string) ed25519.PublicKey {
	decoded, err := base58.Decode(address)
	if err != nil {
		panic(err)
	}
	return decoded
}
