package system

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/candy-drop/pkg/solana"
)

// ProgramKey is the system program, 11111111111111111111111111111111.
var ProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)

const createAccountDataSize = 4 + 8 + 8 + ed25519.PublicKeySize

// CreateAccount allocates space bytes at address, funds it with lamports and
// hands ownership to owner. funder and address both sign.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, space uint64) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(make([]byte, 0, createAccountDataSize), 0)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	data = binary.LittleEndian.AppendUint64(data, space)
	data = append(data, owner...)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}
