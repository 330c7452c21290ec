package externalapi

// PBaaSBlockHeaderSize is the serialized size of a PBaaSBlockHeader:
// a chain ID followed by a pre-header hash.
const PBaaSBlockHeaderSize = DomainChainIDSize + DomainHashSize

// PBaaSBlockHeader is a lightweight reference to another chain's header
// state, embedded in the solution of a block header.
type PBaaSBlockHeader struct {
	ChainID       DomainChainID
	HashPreHeader DomainHash
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal accordingly.
var _ = PBaaSBlockHeader{DomainChainID{}, DomainHash{}}

// Equal returns whether pbh equals to other
func (pbh *PBaaSBlockHeader) Equal(other *PBaaSBlockHeader) bool {
	if pbh == nil || other == nil {
		return pbh == other
	}

	return pbh.ChainID == other.ChainID && pbh.HashPreHeader.Equal(&other.HashPreHeader)
}
