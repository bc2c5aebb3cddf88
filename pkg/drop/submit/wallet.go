package submit

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/solana"
)

// Wallet is the payer. It approves every transaction of an attempt in a
// single call and must add its signature to each of them.
type Wallet interface {
	PublicKey() ed25519.PublicKey
	SignTransactions(ctx context.Context, txns []*solana.Transaction) error
}

// KeypairWallet signs with a local private key.
type KeypairWallet struct {
	key ed25519.PrivateKey
}

func NewKeypairWallet(key ed25519.PrivateKey) *KeypairWallet {
	return &KeypairWallet{key: key}
}

// LoadKeypairWallet reads a solana-keygen keypair file.
func LoadKeypairWallet(path string) (*KeypairWallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading keypair file")
	}
	return ParseKeypairWallet(raw)
}

// ParseKeypairWallet decodes the solana-keygen format, a JSON array of the
// 64 private key bytes.
func ParseKeypairWallet(raw []byte) (*KeypairWallet, error) {
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Wrapf(ErrInvalidKeypair, "%v", err)
	}
	if len(values) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrInvalidKeypair, "expected %d bytes, got %d", ed25519.PrivateKeySize, len(values))
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errors.Wrapf(ErrInvalidKeypair, "byte %d out of range", i)
		}
		key[i] = byte(v)
	}

	// The trailing half of the keypair must be the public key of the seed
	derived := ed25519.NewKeyFromSeed(key.Seed())
	if !derived.Equal(key) {
		return nil, errors.Wrap(ErrInvalidKeypair, "public key does not match seed")
	}

	return NewKeypairWallet(key), nil
}

func (w *KeypairWallet) PublicKey() ed25519.PublicKey {
	return w.key.Public().(ed25519.PublicKey)
}

func (w *KeypairWallet) SignTransactions(ctx context.Context, txns []*solana.Transaction) error {
	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := txn.Sign(w.key); err != nil {
			return err
		}
	}
	return nil
}
