package candymachine

import (
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// decoder reads the sequential Anchor layout. The first failure is sticky,
// so callers check err once after reading every field.
type decoder struct {
	data   []byte
	offset int
	err    error
}

func (d *decoder) take(n int, field string) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.offset < n {
		d.err = errors.Wrapf(ErrInvalidAccountData, "%s: need %d bytes at offset %d, have %d", field, n, d.offset, len(d.data)-d.offset)
		return nil
	}

	b := d.data[d.offset : d.offset+n]
	d.offset += n
	return b
}

func (d *decoder) getDiscriminator(dst *[]byte) {
	b := d.take(8, "discriminator")
	if b == nil {
		return
	}
	*dst = make([]byte, 8)
	copy(*dst, b)
}

func (d *decoder) getKey(dst *ed25519.PublicKey, field string) {
	b := d.take(ed25519.PublicKeySize, field)
	if b == nil {
		return
	}
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, b)
}

func (d *decoder) getUint8(dst *uint8, field string) {
	b := d.take(1, field)
	if b == nil {
		return
	}
	*dst = b[0]
}

func (d *decoder) getBool(dst *bool, field string) {
	var v uint8
	d.getUint8(&v, field)
	if d.err != nil {
		return
	}

	switch v {
	case 0:
		*dst = false
	case 1:
		*dst = true
	default:
		d.err = errors.Wrapf(ErrInvalidAccountData, "%s: invalid bool %d", field, v)
	}
}

// getOption reads a borsh Option tag and reports whether a value follows.
func (d *decoder) getOption(field string) bool {
	var present bool
	d.getBool(&present, field)
	return d.err == nil && present
}

func (d *decoder) getUint16(dst *uint16, field string) {
	b := d.take(2, field)
	if b == nil {
		return
	}
	*dst = binary.LittleEndian.Uint16(b)
}

func (d *decoder) getUint32(dst *uint32, field string) {
	b := d.take(4, field)
	if b == nil {
		return
	}
	*dst = binary.LittleEndian.Uint32(b)
}

func (d *decoder) getUint64(dst *uint64, field string) {
	b := d.take(8, field)
	if b == nil {
		return
	}
	*dst = binary.LittleEndian.Uint64(b)
}

func (d *decoder) getInt64(dst *int64, field string) {
	var v uint64
	d.getUint64(&v, field)
	*dst = int64(v)
}

func (d *decoder) getString(dst *string, field string) {
	var length uint32
	d.getUint32(&length, field)
	if length > math.MaxInt32 {
		d.err = errors.Wrapf(ErrInvalidAccountData, "%s: string length %d", field, length)
		return
	}

	b := d.take(int(length), field)
	if b == nil {
		return
	}
	*dst = string(b)
}

func (d *decoder) getBytes32(dst *[32]byte, field string) {
	b := d.take(32, field)
	if b == nil {
		return
	}
	copy(dst[:], b)
}

// encoder is the inverse of decoder.
type encoder struct {
	buf []byte
}

func (e *encoder) putBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) putKey(v ed25519.PublicKey) {
	key := make([]byte, ed25519.PublicKeySize)
	copy(key, v)
	e.putBytes(key)
}

func (e *encoder) putUint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) putBool(v bool) {
	if v {
		e.putUint8(1)
	} else {
		e.putUint8(0)
	}
}

func (e *encoder) putUint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) putUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) putUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *encoder) putString(v string) {
	e.putUint32(uint32(len(v)))
	e.putBytes([]byte(v))
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
