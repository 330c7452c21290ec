package pbaas

import (
	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/hashes"
	"github.com/verusnet/verushashd/domain/consensus/utils/serialization"
)

// PreHeader holds the header fields that a PBaaS block header commits to
type PreHeader struct {
	HashPrevBlock        externalapi.DomainHash
	HashMerkleRoot       externalapi.DomainHash
	HashFinalSaplingRoot externalapi.DomainHash
	Nonce                externalapi.DomainHash
	Bits                 uint32
}

// NewPreHeader extracts the pre-header of header
func NewPreHeader(header *externalapi.DomainBlockHeader) *PreHeader {
	return &PreHeader{
		HashPrevBlock:        header.HashPrevBlock,
		HashMerkleRoot:       header.HashMerkleRoot,
		HashFinalSaplingRoot: header.HashFinalSaplingRoot,
		Nonce:                header.Nonce,
		Bits:                 header.Bits,
	}
}

// Hash returns the pre-header digest as committed to by the chain chainID
func (ph *PreHeader) Hash(chainID *externalapi.DomainChainID) *externalapi.DomainHash {
	writer := hashes.NewPreHeaderHashWriter()
	err := serialization.WriteElements(writer, chainID, &ph.HashPrevBlock, &ph.HashMerkleRoot,
		&ph.HashFinalSaplingRoot, &ph.Nonce, ph.Bits)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	return writer.Finalize()
}

// NewPBaaSBlockHeader returns the record that chainID embeds for preHeader
func NewPBaaSBlockHeader(chainID *externalapi.DomainChainID, preHeader *PreHeader) *externalapi.PBaaSBlockHeader {
	return &externalapi.PBaaSBlockHeader{
		ChainID:       *chainID,
		HashPreHeader: *preHeader.Hash(chainID),
	}
}
