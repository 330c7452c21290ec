package serialization

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// ReadVarInt reads a CompactSize encoded integer from r and returns it as a uint64.
// Encodings that could have used fewer bytes are rejected.
func ReadVarInt(r io.Reader) (uint64, error) {
	var discriminant uint8
	err := ReadElement(r, &discriminant)
	if err != nil {
		return 0, err
	}

	var rv, min uint64
	switch discriminant {
	case 0xff:
		var buf [8]byte
		if err := read(r, buf[:]); err != nil {
			return 0, err
		}
		rv = littleEndian.Uint64(buf[:])
		min = 0x100000000

	case 0xfe:
		var sv uint32
		if err := ReadElement(r, &sv); err != nil {
			return 0, err
		}
		rv = uint64(sv)
		min = 0x10000

	case 0xfd:
		var sv uint16
		if err := ReadElement(r, &sv); err != nil {
			return 0, err
		}
		rv = uint64(sv)
		min = 0xfd

	default:
		return uint64(discriminant), nil
	}

	if rv < min {
		return 0, errors.Wrapf(ErrMalformed, "non-canonical varint %x - discriminant %x must "+
			"encode a value greater than %x", rv, discriminant, min)
	}
	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		return write(w, []byte{uint8(val)})
	}

	if val <= math.MaxUint16 {
		var buf [3]byte
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		return write(w, buf[:])
	}

	if val <= math.MaxUint32 {
		var buf [5]byte
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		return write(w, buf[:])
	}

	var buf [9]byte
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	return write(w, buf[:])
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= math.MaxUint16:
		return 3
	case val <= math.MaxUint32:
		return 5
	}
	return 9
}

// ReadVarBytes reads a variable length byte array. A byte array is encoded
// as a varInt containing the length of the array followed by the bytes
// themselves. An error is returned if the length is greater than
// maxAllowed, so a hostile length can never force a large allocation.
// The fieldName parameter is only used for the error message.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if count > uint64(maxAllowed) {
		return nil, errors.Wrapf(ErrMalformed, "%s is larger than the max allowed size "+
			"[count %d, max %d]", fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	err = read(r, b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes serializes a variable length byte array to w as a varInt
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	err := WriteVarInt(w, uint64(len(bytes)))
	if err != nil {
		return err
	}
	return write(w, bytes)
}
