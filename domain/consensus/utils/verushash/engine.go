// Package verushash exposes the header hash algorithms as interchangeable
// digest engines. The dispatcher picks a Variant; a Provider turns it into a
// KeyedDigest256.
package verushash

import (
	"io"

	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
)

// ErrUnknownVariant is returned by a Provider asked for a variant it does not implement
var ErrUnknownVariant = errors.New("unknown hash variant")

// KeyedDigest256 is an incremental hash producing 32-byte digests.
// Reset returns the engine to its freshly created state; Finalize does not
// reset it.
type KeyedDigest256 interface {
	io.Writer
	Reset()
	Finalize() *externalapi.DomainHash
}

// Provider creates digest engines
type Provider interface {
	New(variant Variant) (KeyedDigest256, error)
}

// Sum hashes data with a fresh engine of the given variant
func Sum(provider Provider, variant Variant, data []byte) (*externalapi.DomainHash, error) {
	engine, err := provider.New(variant)
	if err != nil {
		return nil, err
	}
	engine.Reset()
	_, err = engine.Write(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed writing to %s engine", variant)
	}
	return engine.Finalize(), nil
}
