package submit

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/solana"
)

// Batch is an ordered set of instructions submitted as one transaction,
// together with the ephemeral signers it requires. The wallet's signature
// is added separately.
type Batch struct {
	Instructions []solana.Instruction
	Signers      []ed25519.PrivateKey
}

func (b Batch) IsEmpty() bool {
	return len(b.Instructions) == 0
}
