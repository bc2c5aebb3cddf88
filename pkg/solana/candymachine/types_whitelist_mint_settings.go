package candymachine

import "crypto/ed25519"

type WhitelistMintMode uint8

const (
	WhitelistMintModeBurnEveryTime WhitelistMintMode = iota
	WhitelistMintModeNeverBurn
)

func (m WhitelistMintMode) String() string {
	switch m {
	case WhitelistMintModeBurnEveryTime:
		return "burn_every_time"
	case WhitelistMintModeNeverBurn:
		return "never_burn"
	}
	return "unknown"
}

type WhitelistMintSettings struct {
	Mode          WhitelistMintMode
	Mint          ed25519.PublicKey
	Presale       bool
	DiscountPrice *uint64
}

func getWhitelistMintSettings(d *decoder, dst **WhitelistMintSettings) {
	if !d.getOption("whitelist_mint_settings") {
		return
	}

	var v WhitelistMintSettings
	var mode uint8
	d.getUint8(&mode, "whitelist_mint_settings.mode")
	d.getKey(&v.Mint, "whitelist_mint_settings.mint")
	d.getBool(&v.Presale, "whitelist_mint_settings.presale")
	if d.getOption("whitelist_mint_settings.discount_price") {
		var price uint64
		d.getUint64(&price, "whitelist_mint_settings.discount_price")
		v.DiscountPrice = &price
	}
	if d.err != nil {
		return
	}
	if mode > uint8(WhitelistMintModeNeverBurn) {
		d.err = ErrInvalidAccountData
		return
	}

	v.Mode = WhitelistMintMode(mode)
	*dst = &v
}

func putWhitelistMintSettings(e *encoder, v *WhitelistMintSettings) {
	e.putBool(v != nil)
	if v == nil {
		return
	}
	e.putUint8(uint8(v.Mode))
	e.putKey(v.Mint)
	e.putBool(v.Presale)
	e.putBool(v.DiscountPrice != nil)
	if v.DiscountPrice != nil {
		e.putUint64(*v.DiscountPrice)
	}
}
