package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/solana"
)

var (
	ErrAccountNotFound     = errors.New("token account not found")
	ErrInvalidTokenAccount = errors.New("invalid token account")
)

// Client reads token accounts holding a single mint.
type Client struct {
	sc   solana.Client
	mint ed25519.PublicKey
}

func NewClient(sc solana.Client, mint ed25519.PublicKey) *Client {
	return &Client{
		sc:   sc,
		mint: mint,
	}
}

func (c *Client) Mint() ed25519.PublicKey {
	return c.mint
}

// GetAccount loads the token account at address. Accounts owned by another
// program, holding another mint, or not yet initialized are reported as
// ErrInvalidTokenAccount.
func (c *Client) GetAccount(address ed25519.PublicKey, commitment solana.Commitment) (*Account, error) {
	info, err := c.sc.GetAccountInfo(address, commitment)
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get account info")
	}

	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, errors.Wrap(ErrInvalidTokenAccount, "not owned by the token program")
	}

	var account Account
	if err := account.Unmarshal(info.Data); err != nil {
		return nil, errors.Wrap(ErrInvalidTokenAccount, err.Error())
	}

	if account.State == AccountStateUninitialized {
		return nil, errors.Wrap(ErrInvalidTokenAccount, "uninitialized")
	}
	if !bytes.Equal(account.Mint, c.mint) {
		return nil, errors.Wrap(ErrInvalidTokenAccount, "mint mismatch")
	}

	return &account, nil
}
