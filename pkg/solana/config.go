package solana

import "strings"

// Environment is the JSON RPC endpoint of a public cluster.
type Environment string

const (
	EnvironmentDev  Environment = "https://api.devnet.solana.com"
	EnvironmentTest Environment = "https://api.testnet.solana.com"
	EnvironmentProd Environment = "https://api.mainnet-beta.solana.com"
)

var environmentsByCluster = map[string]Environment{
	"devnet":       EnvironmentDev,
	"testnet":      EnvironmentTest,
	"mainnet":      EnvironmentProd,
	"mainnet-beta": EnvironmentProd,
}

// ResolveEndpoint maps a cluster name such as "devnet" onto its public
// endpoint. Anything else is returned unchanged as a custom RPC URL.
func ResolveEndpoint(clusterOrURL string) string {
	if env, ok := environmentsByCluster[strings.ToLower(strings.TrimSpace(clusterOrURL))]; ok {
		return string(env)
	}
	return clusterOrURL
}
