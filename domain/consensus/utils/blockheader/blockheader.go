// Package blockheader implements the wire encoding of block headers.
package blockheader

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/serialization"
)

const (
	// BaseHeaderSize is the number of bytes a header takes without its solution.
	// Version 4 bytes + 3 hashes + Time 4 bytes + Bits 4 bytes + Nonce hash.
	BaseHeaderSize = 12 + 4*externalapi.DomainHashSize

	// MaxSolutionSize is the largest solution a header may carry.
	MaxSolutionSize = 0xffff
)

// ErrMalformedHeader indicates that the given bytes do not encode a block header
var ErrMalformedHeader = errors.New("malformed block header")

// SerializeHeader writes the wire encoding of header to w
func SerializeHeader(w io.Writer, header *externalapi.DomainBlockHeader) error {
	err := serialization.WriteElements(w, header.Version, &header.HashPrevBlock, &header.HashMerkleRoot,
		&header.HashFinalSaplingRoot, header.Time, header.Bits, &header.Nonce)
	if err != nil {
		return err
	}
	return serialization.WriteVarBytes(w, header.Solution)
}

// HeaderBytes returns the wire encoding of header
func HeaderBytes(header *externalapi.DomainBlockHeader) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, SerializeSize(header)))
	err := SerializeHeader(buf, header)
	if err != nil {
		// bytes.Buffer only fails by panicking on allocation failure, so an
		// error here means an element type is missing an encoding.
		panic(errors.Wrap(err, "this should never happen. Writing to a bytes.Buffer should never fail"))
	}
	return buf.Bytes()
}

// SerializeSize returns the number of bytes it would take to serialize header
func SerializeSize(header *externalapi.DomainBlockHeader) int {
	return BaseHeaderSize + serialization.VarIntSerializeSize(uint64(len(header.Solution))) + len(header.Solution)
}

// DeserializeHeader reads a block header from r. Bytes following the
// header are left unread.
func DeserializeHeader(r io.Reader) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{}
	err := serialization.ReadElements(r, &header.Version, &header.HashPrevBlock, &header.HashMerkleRoot,
		&header.HashFinalSaplingRoot, &header.Time, &header.Bits, &header.Nonce)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "failed reading header fields: %s", err)
	}

	header.Solution, err = serialization.ReadVarBytes(r, MaxSolutionSize, "solution")
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "failed reading solution: %s", err)
	}
	return header, nil
}

// HeaderFromBytes decodes a header that must span the whole of headerBytes
func HeaderFromBytes(headerBytes []byte) (*externalapi.DomainBlockHeader, error) {
	reader := bytes.NewReader(headerBytes)
	header, err := DeserializeHeader(reader)
	if err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.Wrapf(ErrMalformedHeader, "%d unexpected bytes after the header", reader.Len())
	}
	return header, nil
}
