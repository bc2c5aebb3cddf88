package gateway

import (
	"crypto/ed25519"

	"github.com/code-payments/candy-drop/pkg/solana"
)

var (
	GatewayTokenPrefix = []byte("gateway")
	ExpirePrefix       = []byte("expire")

	// Only the default token seed is supported.
	defaultTokenSeed = make([]byte, 8)
)

type GetGatewayTokenAddressArgs struct {
	Wallet            ed25519.PublicKey
	GatekeeperNetwork ed25519.PublicKey
}

// GetGatewayTokenAddress derives the gateway token a wallet holds for a
// gatekeeper network.
func GetGatewayTokenAddress(args *GetGatewayTokenAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		args.Wallet,
		GatewayTokenPrefix,
		defaultTokenSeed,
		args.GatekeeperNetwork,
	)
}

type GetExpireAddressArgs struct {
	GatekeeperNetwork ed25519.PublicKey
}

// GetExpireAddress derives the network expire feature account.
func GetExpireAddress(args *GetExpireAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		args.GatekeeperNetwork,
		ExpirePrefix,
	)
}
