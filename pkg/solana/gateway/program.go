package gateway

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

var PROGRAM_ADDRESS = mustBase58Decode("gatem74V238djXdzWnJf94Wo1DcnuGkfijbf3AuBhfs")

// PROGRAM_ID is the Civic gateway program that issues gateway tokens. Mints
// whose gatekeeper network expires tokens on use also pass it as an account.
var PROGRAM_ID = ed25519.PublicKey(PROGRAM_ADDRESS)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
