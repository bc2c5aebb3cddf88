package tokenmetadata

import (
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

const (
	// MaxMetadataLen is the allocated size of every metadata account.
	MaxMetadataLen = 679

	// CreatorArrayStart is the offset of the first creator address in a
	// metadata account whose name, symbol and uri are padded to their
	// maximum lengths, which is how the candy machine writes them.
	CreatorArrayStart = 1 + // key
		32 + // update_authority
		32 + // mint
		4 + MaxNameLength + // name
		4 + MaxSymbolLength + // symbol
		4 + MaxUriLength + // uri
		2 + // seller_fee_basis_points
		1 + // creators option
		4 // creators length

	// MintOffset is the offset of the mint address within a metadata account.
	MintOffset = 1 + 32

	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxUriLength    = 200
	MaxCreatorLimit = 5
)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
