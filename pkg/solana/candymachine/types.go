package candymachine

import "crypto/ed25519"

type Creator struct {
	Address  ed25519.PublicKey
	Verified bool
	Share    uint8
}

// HiddenSettings replace per-item config lines with a single name and URI
// shared by every mint.
type HiddenSettings struct {
	Name string
	Uri  string
	Hash [32]byte
}

type GatekeeperConfig struct {
	GatekeeperNetwork ed25519.PublicKey
	ExpireOnUse       bool
}

func getCreators(d *decoder, dst *[]Creator) {
	var count uint32
	d.getUint32(&count, "creators")
	if d.err != nil {
		return
	}
	if count > maxCreatorLimit {
		d.err = ErrInvalidAccountData
		return
	}

	creators := make([]Creator, count)
	for i := range creators {
		d.getKey(&creators[i].Address, "creators.address")
		d.getBool(&creators[i].Verified, "creators.verified")
		d.getUint8(&creators[i].Share, "creators.share")
	}
	if d.err != nil {
		return
	}
	*dst = creators
}

func putCreators(e *encoder, creators []Creator) {
	e.putUint32(uint32(len(creators)))
	for _, c := range creators {
		e.putKey(c.Address)
		e.putBool(c.Verified)
		e.putUint8(c.Share)
	}
}

func getHiddenSettings(d *decoder, dst **HiddenSettings) {
	if !d.getOption("hidden_settings") {
		return
	}

	var v HiddenSettings
	d.getString(&v.Name, "hidden_settings.name")
	d.getString(&v.Uri, "hidden_settings.uri")
	d.getBytes32(&v.Hash, "hidden_settings.hash")
	if d.err != nil {
		return
	}
	*dst = &v
}

func putHiddenSettings(e *encoder, v *HiddenSettings) {
	e.putBool(v != nil)
	if v == nil {
		return
	}
	e.putString(v.Name)
	e.putString(v.Uri)
	e.putBytes(v.Hash[:])
}

func getGatekeeperConfig(d *decoder, dst **GatekeeperConfig) {
	if !d.getOption("gatekeeper") {
		return
	}

	var v GatekeeperConfig
	d.getKey(&v.GatekeeperNetwork, "gatekeeper.gatekeeper_network")
	d.getBool(&v.ExpireOnUse, "gatekeeper.expire_on_use")
	if d.err != nil {
		return
	}
	*dst = &v
}

func putGatekeeperConfig(e *encoder, v *GatekeeperConfig) {
	e.putBool(v != nil)
	if v == nil {
		return
	}
	e.putKey(v.GatekeeperNetwork)
	e.putBool(v.ExpireOnUse)
}
