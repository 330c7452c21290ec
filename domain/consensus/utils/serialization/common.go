package serialization

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
)

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

// ErrMalformed signifies that the read bytes are not a valid encoding.
var ErrMalformed = errors.New("malformed encoding")

var littleEndian = binary.LittleEndian

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	// Attempt to write the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case int32:
		var buf [4]byte
		littleEndian.PutUint32(buf[:], uint32(e))
		return write(w, buf[:])

	case uint32:
		var buf [4]byte
		littleEndian.PutUint32(buf[:], e)
		return write(w, buf[:])

	case uint16:
		var buf [2]byte
		littleEndian.PutUint16(buf[:], e)
		return write(w, buf[:])

	case uint8:
		return write(w, []byte{e})

	case externalapi.DomainHash:
		return write(w, e.ByteSlice())

	case *externalapi.DomainHash:
		return write(w, e.ByteSlice())

	case externalapi.DomainChainID:
		return write(w, e[:])

	case *externalapi.DomainChainID:
		return write(w, e[:])
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// WriteElements writes multiple items to w. It is equivalent to multiple
// calls to WriteElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		var buf [4]byte
		if err := read(r, buf[:]); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(buf[:]))
		return nil

	case *uint32:
		var buf [4]byte
		if err := read(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint32(buf[:])
		return nil

	case *uint16:
		var buf [2]byte
		if err := read(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint16(buf[:])
		return nil

	case *uint8:
		var buf [1]byte
		if err := read(r, buf[:]); err != nil {
			return err
		}
		*e = buf[0]
		return nil

	case *externalapi.DomainHash:
		var buf [externalapi.DomainHashSize]byte
		if err := read(r, buf[:]); err != nil {
			return err
		}
		*e = *externalapi.NewDomainHashFromByteArray(&buf)
		return nil

	case *externalapi.DomainChainID:
		return read(r, e[:])
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to read type %T", element)
}

// ReadElements reads multiple items from r. It is equivalent to multiple
// calls to ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

func write(w io.Writer, p []byte) error {
	_, err := w.Write(p)
	return errors.WithStack(err)
}

func read(r io.Reader, p []byte) error {
	_, err := io.ReadFull(r, p)
	return errors.WithStack(err)
}
