package candymachine

type EndSettingType uint8

const (
	EndSettingTypeDate EndSettingType = iota
	EndSettingTypeAmount
)

func (t EndSettingType) String() string {
	switch t {
	case EndSettingTypeDate:
		return "date"
	case EndSettingTypeAmount:
		return "amount"
	}
	return "unknown"
}

// EndSettings stops minting at a unix timestamp or after a number of
// redemptions, depending on Type.
type EndSettings struct {
	Type   EndSettingType
	Number uint64
}

func getEndSettings(d *decoder, dst **EndSettings) {
	if !d.getOption("end_settings") {
		return
	}

	var v EndSettings
	var kind uint8
	d.getUint8(&kind, "end_settings.end_setting_type")
	d.getUint64(&v.Number, "end_settings.number")
	if d.err != nil {
		return
	}
	if kind > uint8(EndSettingTypeAmount) {
		d.err = ErrInvalidAccountData
		return
	}

	v.Type = EndSettingType(kind)
	*dst = &v
}

func putEndSettings(e *encoder, v *EndSettings) {
	e.putBool(v != nil)
	if v == nil {
		return
	}
	e.putUint8(uint8(v.Type))
	e.putUint64(v.Number)
}
