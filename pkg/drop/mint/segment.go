package mint

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/solana"
)

// segment is the contribution of one optional drop rule to an attempt.
// Segments are built independently and concatenated in a fixed order.
type segment struct {
	remainingAccounts []solana.AccountMeta
	instructions      []solana.Instruction
	cleanup           []solana.Instruction
	signers           []ed25519.PrivateKey
}

type segments []segment

func (s segments) remainingAccounts() []solana.AccountMeta {
	var res []solana.AccountMeta
	for _, seg := range s {
		res = append(res, seg.remainingAccounts...)
	}
	return res
}

func (s segments) instructions() []solana.Instruction {
	var res []solana.Instruction
	for _, seg := range s {
		res = append(res, seg.instructions...)
	}
	return res
}

func (s segments) cleanup() []solana.Instruction {
	var res []solana.Instruction
	for _, seg := range s {
		res = append(res, seg.cleanup...)
	}
	return res
}

func (s segments) signers() []ed25519.PrivateKey {
	var res []ed25519.PrivateKey
	for _, seg := range s {
		res = append(res, seg.signers...)
	}
	return res
}
