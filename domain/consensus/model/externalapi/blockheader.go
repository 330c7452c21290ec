package externalapi

import "bytes"

const (
	// BlockVersionLegacy is the version of headers hashed with VerusHash v1
	BlockVersionLegacy int32 = 4

	// BlockVersionPBaaS is the extended header version, whose solution carries
	// a descriptor and may embed PBaaS block headers
	BlockVersionPBaaS int32 = 0x00010004
)

// DomainBlockHeader represents the header part of a block
type DomainBlockHeader struct {
	Version              int32
	HashPrevBlock        DomainHash
	HashMerkleRoot       DomainHash
	HashFinalSaplingRoot DomainHash
	Time                 uint32
	Bits                 uint32
	Nonce                DomainHash
	Solution             []byte
}

// IsGenesis returns whether the header has no previous block
func (header *DomainBlockHeader) IsGenesis() bool {
	return header.HashPrevBlock.IsZero()
}

// IsExtended returns whether the header uses the extended (PBaaS) format
func (header *DomainBlockHeader) IsExtended() bool {
	return header.Version == BlockVersionPBaaS
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	solutionClone := make([]byte, len(header.Solution))
	copy(solutionClone, header.Solution)

	return &DomainBlockHeader{
		Version:              header.Version,
		HashPrevBlock:        header.HashPrevBlock,
		HashMerkleRoot:       header.HashMerkleRoot,
		HashFinalSaplingRoot: header.HashFinalSaplingRoot,
		Time:                 header.Time,
		Bits:                 header.Bits,
		Nonce:                header.Nonce,
		Solution:             solutionClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainBlockHeader{0, DomainHash{}, DomainHash{},
	DomainHash{}, 0, 0, DomainHash{}, []byte{}}

// Equal returns whether header equals to other
func (header *DomainBlockHeader) Equal(other *DomainBlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}

	if header.Version != other.Version {
		return false
	}

	if !header.HashPrevBlock.Equal(&other.HashPrevBlock) {
		return false
	}

	if !header.HashMerkleRoot.Equal(&other.HashMerkleRoot) {
		return false
	}

	if !header.HashFinalSaplingRoot.Equal(&other.HashFinalSaplingRoot) {
		return false
	}

	if header.Time != other.Time {
		return false
	}

	if header.Bits != other.Bits {
		return false
	}

	if !header.Nonce.Equal(&other.Nonce) {
		return false
	}

	return bytes.Equal(header.Solution, other.Solution)
}
