// Package shortvec implements the compact-u16 length prefix used by Solana
// wire formats.
package shortvec

import (
	"math"

	"github.com/pkg/errors"
)

// MaxLen is the largest length that can be encoded.
const MaxLen = math.MaxUint16

const maxEncodedSize = 3

var (
	ErrLenOutOfRange = errors.New("length out of range")
	ErrTruncated     = errors.New("truncated length prefix")
)

// AppendLen appends the encoding of n to dst.
func AppendLen(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > MaxLen {
		return dst, errors.Wrapf(ErrLenOutOfRange, "%d", n)
	}

	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			return append(dst, b), nil
		}
		dst = append(dst, b|0x80)
	}
}

// ReadLen decodes the length prefix at the start of src and reports how many
// bytes it occupied.
func ReadLen(src []byte) (n, size int, err error) {
	for size < maxEncodedSize {
		if size >= len(src) {
			return 0, 0, ErrTruncated
		}

		b := src[size]
		n |= int(b&0x7f) << (7 * size)
		size++

		if b&0x80 == 0 {
			if n > MaxLen {
				return 0, 0, errors.Wrapf(ErrLenOutOfRange, "%d", n)
			}
			return n, size, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrLenOutOfRange, "more than %d bytes", maxEncodedSize)
}
