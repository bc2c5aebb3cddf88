package mint

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/drop/submit"
	"github.com/code-payments/candy-drop/pkg/solana"
)

// MintRequest is everything derived for a single mint attempt. It must not be
// reused across attempts since the mint keypair is single use.
type MintRequest struct {
	Mint  ed25519.PrivateKey
	Payer ed25519.PublicKey

	// TokenAccount is the payer's associated account for the new mint
	TokenAccount  ed25519.PublicKey
	Metadata      ed25519.PublicKey
	MasterEdition ed25519.PublicKey
	Creator       ed25519.PublicKey
	CreatorBump   uint8

	// PayingAccount is the payer's associated account for the payment mint,
	// or the payer itself when the drop is priced in SOL.
	PayingAccount ed25519.PublicKey

	RemainingAccounts []solana.AccountMeta

	Main    submit.Batch
	Cleanup submit.Batch
}

func (r *MintRequest) MintAddress() ed25519.PublicKey {
	return r.Mint.Public().(ed25519.PublicKey)
}

// Batches returns the batches in submission order.
func (r *MintRequest) Batches() []submit.Batch {
	return []submit.Batch{r.Main, r.Cleanup}
}
