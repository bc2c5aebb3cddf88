package solana

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/pkg/errors"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidPublicKey      = errors.New("invalid public key")

	// ErrDerivationExhausted is returned when every bump seed from 255 down
	// to 0 produces an address on the ed25519 curve.
	ErrDerivationExhausted = errors.New("program address derivation exhausted")
)

var (
	programHashCtor = sha256.New

	programAddressMarker = []byte("ProgramDerivedAddress")
)

// CreateProgramAddress derives sha256(seeds || program || "ProgramDerivedAddress").
//
// A program address must not lie on the ed25519 curve, so that no private key
// exists for it. ErrInvalidPublicKey is returned for candidates that do.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	return deriveProgramAddress(program, seeds)
}

// FindProgramAddressAndBump appends a single bump byte to the seeds, starting
// at 255 and counting down, and returns the first address that is off the
// curve along with its bump.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	bump := []byte{0}

	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, bump)

	if err := validateSeeds(withBump); err != nil {
		return nil, 0, err
	}

	for i := 255; i >= 0; i-- {
		bump[0] = byte(i)

		address, err := deriveProgramAddress(program, withBump)
		if err == nil {
			return address, bump[0], nil
		}
		if !errors.Is(err, ErrInvalidPublicKey) {
			return nil, 0, err
		}
	}

	return nil, 0, ErrDerivationExhausted
}

// FindProgramAddress is FindProgramAddressAndBump without the bump.
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	address, _, err := FindProgramAddressAndBump(program, seeds...)
	return address, err
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > maxSeeds {
		return ErrTooManySeeds
	}
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return ErrMaxSeedLengthExceeded
		}
	}
	return nil
}

func deriveProgramAddress(program ed25519.PublicKey, seeds [][]byte) (ed25519.PublicKey, error) {
	h := programHashCtor()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(program)
	h.Write(programAddressMarker)

	var candidate [32]byte
	copy(candidate[:], h.Sum(nil))

	if isOnCurve(&candidate) {
		return nil, ErrInvalidPublicKey
	}
	return candidate[:], nil
}

// isOnCurve reports whether b decompresses to a valid ed25519 point. The
// standard library keeps its point type internal, so the check goes through
// the edwards25519 package directly.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L182-L187
func isOnCurve(b *[32]byte) bool {
	var point edwards25519.ExtendedGroupElement
	return point.FromBytes(b)
}
