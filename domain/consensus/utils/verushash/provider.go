package verushash

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/hashes"
	"golang.org/x/crypto/blake2b"
)

const keySeed = "VerusHash reference key"

var (
	initOnce sync.Once
	keys     map[Variant][]byte
)

// initialize derives the per-variant key table. It runs once per process no
// matter how many goroutines reach it first.
func initialize() {
	initOnce.Do(func() {
		log.Debugf("Initializing reference engine key table")
		table := make(map[Variant][]byte, len(Variants))
		for _, variant := range Variants {
			if variant == SHA256D {
				continue
			}
			key := blake2b.Sum256([]byte(keySeed + "/" + variant.String()))
			table[variant] = key[:]
		}
		keys = table
	})
}

type referenceProvider struct{}

// DefaultProvider returns the reference Provider. SHA256D is double SHA-256.
// The VerusHash variants are realised as BLAKE2b-256 keyed per variant, so
// every variant yields a distinct, deterministic digest; builds linking the
// native VerusHash primitives supply their own Provider instead.
func DefaultProvider() Provider {
	return referenceProvider{}
}

func (referenceProvider) New(variant Variant) (KeyedDigest256, error) {
	if variant == SHA256D {
		return hashes.NewDoubleHashWriter(), nil
	}

	initialize()
	key, ok := keys[variant]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownVariant, "%s", variant)
	}
	return &keyedEngine{writer: hashes.NewKeyedHashWriter(key)}, nil
}

type keyedEngine struct {
	writer hashes.HashWriter
}

func (e *keyedEngine) Write(p []byte) (int, error) {
	return e.writer.Write(p)
}

func (e *keyedEngine) Reset() {
	e.writer.Reset()
}

func (e *keyedEngine) Finalize() *externalapi.DomainHash {
	return e.writer.Finalize()
}
