// Package consensushashing computes block header digests, selecting the
// hash algorithm from the header's version markers or from a block height.
package consensushashing

import (
	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/blockheader"
	"github.com/verusnet/verushashd/domain/consensus/utils/hashes"
	"github.com/verusnet/verushashd/domain/consensus/utils/pbaas"
	"github.com/verusnet/verushashd/domain/consensus/utils/solution"
	"github.com/verusnet/verushashd/domain/consensus/utils/verushash"
	"github.com/verusnet/verushashd/domain/dagconfig"
)

// HeaderHasher hashes block headers for one network. It holds no mutable
// state and is safe for concurrent use.
type HeaderHasher struct {
	params   *dagconfig.Params
	provider verushash.Provider
}

// New returns a HeaderHasher for the network described by params, taking its
// digest engines from provider
func New(params *dagconfig.Params, provider verushash.Provider) *HeaderHasher {
	return &HeaderHasher{
		params:   params,
		provider: provider,
	}
}

// Params returns the network parameters of the hasher
func (hh *HeaderHasher) Params() *dagconfig.Params {
	return hh.params
}

// SelectVariant returns the algorithm that HeaderHash uses for header
func (hh *HeaderHasher) SelectVariant(header *externalapi.DomainBlockHeader) verushash.Variant {
	variant, _ := hh.selectVariant(header)
	return variant
}

// selectVariant also reports whether header is to be hashed in its cleared form
func (hh *HeaderHasher) selectVariant(header *externalapi.DomainBlockHeader) (verushash.Variant, bool) {
	if header.IsGenesis() {
		return verushash.SHA256D, false
	}
	if !header.IsExtended() {
		return verushash.V1, false
	}

	variant := extendedVariant(solution.Version(header.Solution))
	hashCleared := solution.PBaaSHeaderCount(header.Solution) != 0 &&
		pbaas.HasCanonicalEmbeddedMatch(header, &hh.params.ChainID)
	return variant, hashCleared
}

func extendedVariant(solutionVersion uint8) verushash.Variant {
	switch {
	case solutionVersion < solution.ActivateVerusHash2_1:
		return verushash.V2B
	case solutionVersion < solution.ActivatePBaaS:
		return verushash.V2B1
	default:
		return verushash.V2B2
	}
}

// SelectVariantForHeight returns the algorithm used for header at the given
// height. Only the solution markers and the height are considered.
func (hh *HeaderHasher) SelectVariantForHeight(header *externalapi.DomainBlockHeader, height uint64) verushash.Variant {
	if solution.FormatMarker(header.Solution) != solution.FormatMarkerExtended ||
		solution.Version(header.Solution) < solution.ActivateVerusHash2 {
		return verushash.V1
	}
	if solution.Version(header.Solution) >= solution.ActivateVerusHash2_1 {
		return verushash.V2B1
	}
	if hh.params.IsActiveAtHeight(solution.ActivateVerusHash2_1, height) {
		return verushash.V2B1
	}
	return verushash.V2B
}

// HeaderHash returns the digest of header. Extended headers that embed a
// self-consistent PBaaS header are hashed with their chain specific data
// cleared, so that every chain computes the same digest.
func (hh *HeaderHasher) HeaderHash(header *externalapi.DomainBlockHeader) (*externalapi.DomainHash, error) {
	variant, hashCleared := hh.selectVariant(header)
	if hashCleared {
		log.Tracef("Hashing the cleared form of a header with %d PBaaS headers",
			solution.PBaaSHeaderCount(header.Solution))
		header = pbaas.ClearNonCanonicalData(header)
	}
	return hh.hash(variant, header)
}

// HeaderHashReversed returns HeaderHash with its bytes in reverse order
func (hh *HeaderHasher) HeaderHashReversed(header *externalapi.DomainBlockHeader) (*externalapi.DomainHash, error) {
	hash, err := hh.HeaderHash(header)
	if err != nil {
		return nil, err
	}
	return hashes.Reversed(hash), nil
}

// HeaderHashForHeight returns the digest of header using the algorithm
// active at height. The header is hashed as it is.
func (hh *HeaderHasher) HeaderHashForHeight(header *externalapi.DomainBlockHeader, height uint64) (
	*externalapi.DomainHash, error) {

	return hh.hash(hh.SelectVariantForHeight(header, height), header)
}

func (hh *HeaderHasher) hash(variant verushash.Variant, header *externalapi.DomainBlockHeader) (
	*externalapi.DomainHash, error) {

	engine, err := hh.provider.New(variant)
	if err != nil {
		return nil, err
	}
	engine.Reset()
	err = blockheader.SerializeHeader(engine, header)
	if err != nil {
		return nil, errors.Wrapf(err, "failed writing header to the %s engine", variant)
	}
	return engine.Finalize(), nil
}
