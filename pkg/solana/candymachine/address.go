package candymachine

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/solana"
)

var (
	CreatorPrefix = []byte("candy_machine")
)

type GetCreatorAddressArgs struct {
	Program      ed25519.PublicKey
	CandyMachine ed25519.PublicKey
}

// GetCreatorAddress derives the candy machine creator. It is the first
// verified creator on every item minted from the machine, and the bump is
// passed to mint_nft.
func GetCreatorAddress(args *GetCreatorAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.Program,
		CreatorPrefix,
		args.CandyMachine,
	)
}
