package hashes

import (
	"crypto/sha256"
	"hash"

	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"golang.org/x/crypto/blake2b"
)

const preHeaderHashDomain = "PBaaSPreHeader"

// HashWriter is used to incrementally hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// The used hash function is blake2b.
// This can only be created via one of the domain separated constructors
type HashWriter struct {
	hash.Hash
}

// NewPreHeaderHashWriter Returns a new HashWriter used for PBaaS pre-header hashes
func NewPreHeaderHashWriter() HashWriter {
	return newKeyedHashWriter([]byte(preHeaderHashDomain))
}

// NewKeyedHashWriter returns a new HashWriter whose BLAKE2b state is keyed with key.
// key must not be longer than 64 bytes.
func NewKeyedHashWriter(key []byte) HashWriter {
	return newKeyedHashWriter(key)
}

func newKeyedHashWriter(key []byte) HashWriter {
	blake, err := blake2b.New256(key)
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %d bytes is a valid BLAKE2b key", len(key)))
	}
	return HashWriter{blake}
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting hash
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	// This should prevent `Sum` for allocating an output buffer, by using the DomainHash buffer. we still copy because we don't want to rely on that.
	copy(sum[:], h.Sum(sum[:0]))
	return externalapi.NewDomainHashFromByteArray(&sum)
}

// DoubleHashWriter is used to incrementally double hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// DoubleHashWriter.Write(slice).Finalize == sha256(sha256(slice))
type DoubleHashWriter struct {
	inner hash.Hash
}

// NewDoubleHashWriter Returns a new DoubleHashWriter
func NewDoubleHashWriter() *DoubleHashWriter {
	return &DoubleHashWriter{sha256.New()}
}

// Write will always return (len(p), nil)
func (h *DoubleHashWriter) Write(p []byte) (n int, err error) {
	return h.inner.Write(p)
}

// Reset clears everything written so far
func (h *DoubleHashWriter) Reset() {
	h.inner.Reset()
}

// Finalize returns the resulting double hash
func (h *DoubleHashWriter) Finalize() *externalapi.DomainHash {
	firstHashInTheSum := h.inner.Sum(nil)
	sum := sha256.Sum256(firstHashInTheSum)
	return externalapi.NewDomainHashFromByteArray(&sum)
}
