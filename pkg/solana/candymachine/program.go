package candymachine

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

// DEFAULT_PROGRAM_ID is the mainnet deployment of the Candy Machine v2
// program. Callers should prefer the configured program id.
var (
	DEFAULT_PROGRAM_ADDRESS = mustBase58Decode("cndy3Z4yapfJBmL3ShUp5exZKqR3z33thTzeNMm2gRZ")
	DEFAULT_PROGRAM_ID      = ed25519.PublicKey(DEFAULT_PROGRAM_ADDRESS)
)

var (
	METADATA_PROGRAM_ID  = ed25519.PublicKey(mustBase58Decode("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"))
	SYSTEM_PROGRAM_ID    = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
	SPL_TOKEN_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))

	SYSVAR_RENT_PUBKEY               = ed25519.PublicKey(mustBase58Decode("SysvarRent111111111111111111111111111111111"))
	SYSVAR_CLOCK_PUBKEY              = ed25519.PublicKey(mustBase58Decode("SysvarC1ock11111111111111111111111111111111"))
	SYSVAR_RECENT_BLOCKHASHES_PUBKEY = ed25519.PublicKey(mustBase58Decode("SysvarRecentB1ockHashes11111111111111111111"))
	SYSVAR_INSTRUCTIONS_PUBKEY       = ed25519.PublicKey(mustBase58Decode("Sysvar1nstructions1111111111111111111111111"))
)
