package tokenmetadata

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

type Key uint8

const (
	KeyUninitialized Key = iota
	KeyEditionV1
	KeyMasterEditionV1
	KeyReservationListV1
	KeyMetadataV1
)

type Creator struct {
	Address  [32]byte
	Verified bool
	Share    uint8
}

type Data struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             *[]Creator
}

type Collection struct {
	Verified bool
	Key      [32]byte
}

// MetadataAccount is the leading portion of a metadata account. Later
// optional fields are zero padded on chain and decode as absent.
type MetadataAccount struct {
	Key                 uint8
	UpdateAuthority     [32]byte
	Mint                [32]byte
	Data                Data
	PrimarySaleHappened bool
	IsMutable           bool
	EditionNonce        *uint8
	TokenStandard       *uint8
	Collection          *Collection
}

func (obj *MetadataAccount) Unmarshal(data []byte) (err error) {
	if len(data) == 0 || Key(data[0]) != KeyMetadataV1 {
		return ErrInvalidAccountData
	}

	// borsh-go can panic on lengths that run past the buffer
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrInvalidAccountData, "%v", r)
		}
	}()

	var decoded MetadataAccount
	if err := borsh.Deserialize(&decoded, data); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}

	decoded.Data.Name = displayText(decoded.Data.Name)
	decoded.Data.Symbol = displayText(decoded.Data.Symbol)
	decoded.Data.Uri = trimPadding(decoded.Data.Uri)

	*obj = decoded
	return nil
}

// Marshal encodes the account and pads it to the on-chain allocation size.
func (obj *MetadataAccount) Marshal() ([]byte, error) {
	encoded, err := borsh.Serialize(*obj)
	if err != nil {
		return nil, err
	}
	if len(encoded) > MaxMetadataLen {
		return nil, errors.Errorf("metadata exceeds %d bytes", MaxMetadataLen)
	}

	padded := make([]byte, MaxMetadataLen)
	copy(padded, encoded)
	return padded, nil
}

func (obj *MetadataAccount) MintAddress() ed25519.PublicKey {
	return append(ed25519.PublicKey{}, obj.Mint[:]...)
}

func (obj *MetadataAccount) UpdateAuthorityAddress() ed25519.PublicKey {
	return append(ed25519.PublicKey{}, obj.UpdateAuthority[:]...)
}

func (obj *MetadataAccount) String() string {
	return fmt.Sprintf(
		"Metadata{mint=%s,name=%s,symbol=%s,uri=%s}",
		base58.Encode(obj.Mint[:]),
		obj.Data.Name,
		obj.Data.Symbol,
		obj.Data.Uri,
	)
}

// PadName and friends pad values the way the candy machine does when it
// creates metadata, which keeps creator addresses at CreatorArrayStart.
func PadName(v string) string   { return pad(v, MaxNameLength) }
func PadSymbol(v string) string { return pad(v, MaxSymbolLength) }
func PadUri(v string) string    { return pad(v, MaxUriLength) }

func pad(v string, n int) string {
	if len(v) >= n {
		return v
	}
	return v + strings.Repeat("\x00", n-len(v))
}

func trimPadding(v string) string {
	return strings.TrimRight(v, "\x00")
}

// displayText unpads a name or symbol and normalizes it to NFC.
func displayText(v string) string {
	return norm.NFC.String(trimPadding(v))
}
