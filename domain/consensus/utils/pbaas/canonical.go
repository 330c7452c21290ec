package pbaas

import (
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/solution"
)

// CheckCanonical returns whether header embeds a record for chainID whose
// pre-header digest matches the header's own fields
func CheckCanonical(header *externalapi.DomainBlockHeader, chainID *externalapi.DomainChainID) bool {
	stored, _, ok := GetPBaaSHeader(header, chainID)
	if !ok {
		return false
	}
	return stored.HashPreHeader.Equal(NewPreHeader(header).Hash(chainID))
}

// HasCanonicalEmbeddedMatch returns true as soon as one embedded record is
// consistent with the header's fields. The local chain is checked first.
//
// A true result means the header is hashed in its cleared form. Headers
// without any consistent record are hashed as they are.
func HasCanonicalEmbeddedMatch(header *externalapi.DomainBlockHeader, localChainID *externalapi.DomainChainID) bool {
	if CheckCanonical(header, localChainID) {
		return true
	}
	if solution.PBaaSHeaderCount(header.Solution) == 0 {
		return false
	}
	vector, err := solution.Parse(header.Solution)
	if err != nil {
		return false
	}
	for _, record := range vector.Records() {
		if record.ChainID == *localChainID {
			continue
		}
		if CheckCanonical(header, &record.ChainID) {
			return true
		}
	}
	return false
}

// ClearNonCanonicalData returns a copy of header with the fields that differ
// between chains zeroed: the merkle root, the final sapling root, and the chain
// ID of every embedded record. header itself is not modified.
func ClearNonCanonicalData(header *externalapi.DomainBlockHeader) *externalapi.DomainBlockHeader {
	cleared := header.Clone()
	cleared.HashMerkleRoot = externalapi.DomainHash{}
	cleared.HashFinalSaplingRoot = externalapi.DomainHash{}

	if solution.PBaaSHeaderCount(cleared.Solution) == 0 {
		return cleared
	}
	vector, err := solution.Parse(cleared.Solution)
	if err != nil {
		return cleared
	}
	for i, record := range vector.Records() {
		record.ChainID = externalapi.DomainChainID{}
		// i is in range and the record count is unchanged, so neither call can fail
		_ = vector.Set(i, &record)
	}
	serialized, err := vector.Serialize()
	if err != nil {
		log.Debugf("Failed clearing embedded chain IDs: %s", err)
		return cleared
	}
	cleared.Solution = serialized
	return cleared
}
