package drop

import (
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

type EndConditionKind uint8

const (
	EndConditionDate EndConditionKind = iota
	EndConditionAmountSold
)

func (k EndConditionKind) String() string {
	switch k {
	case EndConditionDate:
		return "date"
	case EndConditionAmountSold:
		return "amount_sold"
	}
	return "unknown"
}

// EndCondition closes a drop at a unix timestamp or after a number of items
// have been sold.
type EndCondition struct {
	Kind  EndConditionKind
	Value uint64
}

func (c *EndCondition) Validate() error {
	switch c.Kind {
	case EndConditionDate, EndConditionAmountSold:
		return nil
	}
	return errors.Errorf("unknown end condition kind %d", c.Kind)
}

// isOpen reports whether the condition still allows minting. A nil
// condition never closes the drop.
func (c *EndCondition) isOpen(now time.Time, redeemed uint64) bool {
	if c == nil {
		return true
	}

	switch c.Kind {
	case EndConditionDate:
		return time.Unix(int64(c.Value), 0).After(now)
	case EndConditionAmountSold:
		return redeemed < c.Value
	}
	return false
}

// GatekeeperRule requires the payer to hold a gateway token issued by
// Network.
type GatekeeperRule struct {
	Network     ed25519.PublicKey
	ExpireOnUse bool
}

func (r *GatekeeperRule) Validate() error {
	if len(r.Network) != ed25519.PublicKeySize {
		return errors.New("gatekeeper network is not a valid address")
	}
	return nil
}

// AllowListRule requires the payer to hold a token of Mint. With BurnOnUse
// the token is burned by the mint.
type AllowListRule struct {
	Mint          ed25519.PublicKey
	BurnOnUse     bool
	Presale       bool
	DiscountPrice *uint64
}

func (r *AllowListRule) Validate() error {
	if len(r.Mint) != ed25519.PublicKeySize {
		return errors.New("allow list mint is not a valid address")
	}
	return nil
}

// HiddenSettings are display only.
type HiddenSettings struct {
	Name string
	URI  string
	Hash [32]byte
}

type Creator struct {
	Address  ed25519.PublicKey
	Verified bool
	Share    uint8
}

// DropState is an immutable snapshot of a drop and the eligibility flags
// derived from it at ObservedAt.
type DropState struct {
	ID        ed25519.PublicKey
	Program   ed25519.PublicKey
	Authority ed25519.PublicKey

	ItemsAvailable uint64
	ItemsRedeemed  uint64
	ItemsRemaining uint64

	GoLiveDate *time.Time
	IsPresale  bool
	IsActive   bool
	IsSoldOut  bool

	Treasury    ed25519.PublicKey
	PaymentMint ed25519.PublicKey

	Gatekeeper   *GatekeeperRule
	AllowList    *AllowListRule
	EndCondition *EndCondition
	Hidden       *HiddenSettings

	Price                uint64
	Symbol               string
	SellerFeeBasisPoints uint16
	Creators             []Creator

	// MintRentExemption is the lamport balance that makes a new token mint
	// account rent exempt.
	MintRentExemption uint64

	ObservedAt time.Time
}

// Eligible returns ErrNotEligible, with the reason, when a mint attempt
// against this snapshot would be rejected.
func (s *DropState) Eligible() error {
	if s.IsSoldOut {
		return errors.Wrap(ErrNotEligible, "sold out")
	}
	if !s.IsActive {
		return errors.Wrap(ErrNotEligible, "not live")
	}
	return nil
}

// GoLiveString renders the go live date for display.
func (s *DropState) GoLiveString() string {
	if s.GoLiveDate == nil {
		return "not scheduled"
	}
	return s.GoLiveDate.UTC().Format(time.RFC1123)
}

func (s *DropState) String() string {
	return base58.Encode(s.ID)
}

// MintedItem is a previously minted item and its off-chain image.
type MintedItem struct {
	Mint     ed25519.PublicKey
	Metadata ed25519.PublicKey
	Name     string
	Symbol   string
	URI      string
	Image    string
}
