package candymachine

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	maxCreatorLimit = 5
)

var CandyMachineAccountDiscriminator = []byte{0x33, 0xad, 0xb1, 0x71, 0x19, 0xf1, 0x6d, 0xbd}

// CandyMachineData is the configurable portion of a candy machine.
type CandyMachineData struct {
	Uuid                  string
	Price                 uint64
	Symbol                string
	SellerFeeBasisPoints  uint16
	MaxSupply             uint64
	IsMutable             bool
	RetainAuthority       bool
	GoLiveDate            *int64
	EndSettings           *EndSettings
	Creators              []Creator
	HiddenSettings        *HiddenSettings
	WhitelistMintSettings *WhitelistMintSettings
	ItemsAvailable        uint64
	Gatekeeper            *GatekeeperConfig
}

// CandyMachineAccount is the decoded head of a candy machine account. Config
// lines that follow the data record are not decoded.
type CandyMachineAccount struct {
	Authority     ed25519.PublicKey
	Wallet        ed25519.PublicKey
	TokenMint     ed25519.PublicKey
	ItemsRedeemed uint64
	Data          CandyMachineData
}

func (obj *CandyMachineAccount) Unmarshal(data []byte) error {
	d := &decoder{data: data}

	var discriminator []byte
	d.getDiscriminator(&discriminator)
	if d.err != nil {
		return d.err
	}
	if !bytes.Equal(discriminator, CandyMachineAccountDiscriminator) {
		return errors.Wrap(ErrInvalidAccountData, "discriminator mismatch")
	}

	d.getKey(&obj.Authority, "authority")
	d.getKey(&obj.Wallet, "wallet")
	obj.TokenMint = nil
	if d.getOption("token_mint") {
		d.getKey(&obj.TokenMint, "token_mint")
	}
	d.getUint64(&obj.ItemsRedeemed, "items_redeemed")

	obj.Data = CandyMachineData{}
	d.getString(&obj.Data.Uuid, "data.uuid")
	d.getUint64(&obj.Data.Price, "data.price")
	d.getString(&obj.Data.Symbol, "data.symbol")
	d.getUint16(&obj.Data.SellerFeeBasisPoints, "data.seller_fee_basis_points")
	d.getUint64(&obj.Data.MaxSupply, "data.max_supply")
	d.getBool(&obj.Data.IsMutable, "data.is_mutable")
	d.getBool(&obj.Data.RetainAuthority, "data.retain_authority")
	if d.getOption("data.go_live_date") {
		var goLive int64
		d.getInt64(&goLive, "data.go_live_date")
		obj.Data.GoLiveDate = &goLive
	}
	getEndSettings(d, &obj.Data.EndSettings)
	getCreators(d, &obj.Data.Creators)
	getHiddenSettings(d, &obj.Data.HiddenSettings)
	getWhitelistMintSettings(d, &obj.Data.WhitelistMintSettings)
	d.getUint64(&obj.Data.ItemsAvailable, "data.items_available")
	getGatekeeperConfig(d, &obj.Data.Gatekeeper)

	return d.err
}

// Marshal encodes the account head in the on-chain layout.
func (obj *CandyMachineAccount) Marshal() []byte {
	e := &encoder{}

	e.putBytes(CandyMachineAccountDiscriminator)
	e.putKey(obj.Authority)
	e.putKey(obj.Wallet)
	e.putBool(obj.TokenMint != nil)
	if obj.TokenMint != nil {
		e.putKey(obj.TokenMint)
	}
	e.putUint64(obj.ItemsRedeemed)

	e.putString(obj.Data.Uuid)
	e.putUint64(obj.Data.Price)
	e.putString(obj.Data.Symbol)
	e.putUint16(obj.Data.SellerFeeBasisPoints)
	e.putUint64(obj.Data.MaxSupply)
	e.putBool(obj.Data.IsMutable)
	e.putBool(obj.Data.RetainAuthority)
	e.putBool(obj.Data.GoLiveDate != nil)
	if obj.Data.GoLiveDate != nil {
		e.putUint64(uint64(*obj.Data.GoLiveDate))
	}
	putEndSettings(e, obj.Data.EndSettings)
	putCreators(e, obj.Data.Creators)
	putHiddenSettings(e, obj.Data.HiddenSettings)
	putWhitelistMintSettings(e, obj.Data.WhitelistMintSettings)
	e.putUint64(obj.Data.ItemsAvailable)
	putGatekeeperConfig(e, obj.Data.Gatekeeper)

	return e.buf
}

func (obj *CandyMachineAccount) String() string {
	tokenMint := "<nil>"
	if obj.TokenMint != nil {
		tokenMint = base58.Encode(obj.TokenMint)
	}

	goLive := "<nil>"
	if obj.Data.GoLiveDate != nil {
		goLive = time.Unix(*obj.Data.GoLiveDate, 0).UTC().String()
	}

	return fmt.Sprintf(
		"CandyMachine{authority=%s,wallet=%s,token_mint=%s,items_redeemed=%d,items_available=%d,price=%d,go_live_date=%s}",
		base58.Encode(obj.Authority),
		base58.Encode(obj.Wallet),
		tokenMint,
		obj.ItemsRedeemed,
		obj.Data.ItemsAvailable,
		obj.Data.Price,
		goLive,
	)
}
