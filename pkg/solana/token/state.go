package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

// COption tags are four bytes wide in the token program layouts.
const optionTagSize = 4

var ErrInvalidAccountData = errors.New("invalid token account data")

// Account is an SPL token account.
type Account struct {
	Mint   ed25519.PublicKey
	Owner  ed25519.PublicKey
	Amount uint64

	// Delegate may move up to DelegatedAmount tokens on the owner's behalf.
	Delegate        ed25519.PublicKey
	DelegatedAmount uint64

	State AccountState

	// IsNative holds the rent-exempt reserve of wrapped SOL accounts.
	IsNative *uint64

	CloseAuthority ed25519.PublicKey
}

// Marshal encodes the account in its on-chain layout.
func (a *Account) Marshal() []byte {
	b := make([]byte, 0, AccountSize)
	b = appendKey(b, a.Mint)
	b = appendKey(b, a.Owner)
	b = binary.LittleEndian.AppendUint64(b, a.Amount)
	b = appendAccountOptionalKey(b, a.Delegate)
	b = append(b, byte(a.State))
	if a.IsNative != nil {
		b = binary.LittleEndian.AppendUint32(b, 1)
		b = binary.LittleEndian.AppendUint64(b, *a.IsNative)
	} else {
		b = append(b, make([]byte, optionTagSize+8)...)
	}
	b = binary.LittleEndian.AppendUint64(b, a.DelegatedAmount)
	return appendAccountOptionalKey(b, a.CloseAuthority)
}

// Unmarshal decodes the on-chain layout into a.
func (a *Account) Unmarshal(b []byte) error {
	if len(b) != AccountSize {
		return errors.Wrapf(ErrInvalidAccountData, "size %d", len(b))
	}

	r := layoutReader(b)
	a.Mint = r.key()
	a.Owner = r.key()
	a.Amount = r.uint64()
	a.Delegate = r.optionalKey()
	a.State = AccountState(r.next(1)[0])
	if r.present() {
		isNative := r.uint64()
		a.IsNative = &isNative
	} else {
		r.next(8)
		a.IsNative = nil
	}
	a.DelegatedAmount = r.uint64()
	a.CloseAuthority = r.optionalKey()

	if a.State > AccountStateFrozen {
		return errors.Wrapf(ErrInvalidAccountData, "state %d", a.State)
	}
	return nil
}

func appendKey(b []byte, key ed25519.PublicKey) []byte {
	if len(key) == 0 {
		return append(b, make([]byte, ed25519.PublicKeySize)...)
	}
	return append(b, key...)
}

// appendAccountOptionalKey encodes a COption<Pubkey> as stored in account
// data, where the tag is a u32.
func appendAccountOptionalKey(b []byte, key ed25519.PublicKey) []byte {
	if len(key) == 0 {
		return append(b, make([]byte, optionTagSize+ed25519.PublicKeySize)...)
	}
	b = binary.LittleEndian.AppendUint32(b, 1)
	return append(b, key...)
}

// layoutReader walks a fixed-size layout whose length was checked up front.
type layoutReader []byte

func (r *layoutReader) next(n int) []byte {
	b := (*r)[:n]
	*r = (*r)[n:]
	return b
}

func (r *layoutReader) key() ed25519.PublicKey {
	return append(ed25519.PublicKey{}, r.next(ed25519.PublicKeySize)...)
}

func (r *layoutReader) uint64() uint64 {
	return binary.LittleEndian.Uint64(r.next(8))
}

func (r *layoutReader) present() bool {
	return binary.LittleEndian.Uint32(r.next(optionTagSize)) != 0
}

func (r *layoutReader) optionalKey() ed25519.PublicKey {
	if !r.present() {
		r.next(ed25519.PublicKeySize)
		return nil
	}
	return r.key()
}
