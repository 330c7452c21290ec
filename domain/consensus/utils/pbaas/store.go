// Package pbaas manages the PBaaS block headers embedded in the solution of
// an extended block header, and the canonical form used when hashing one.
//
// Operations that modify a header replace its Solution slice. They are not
// safe for concurrent use on the same header.
package pbaas

import (
	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/solution"
)

var (
	// ErrSolutionFull indicates that no further PBaaS block header can be
	// embedded in a solution
	ErrSolutionFull = errors.New("solution has no room for another PBaaS header")

	// ErrPBaaSHeadersInactive indicates a header whose version or solution
	// version predates embedded PBaaS block headers
	ErrPBaaSHeadersInactive = errors.New("PBaaS headers are not active for this header")

	// ErrPBaaSHeaderNotFound indicates that no embedded record matches a chain ID
	ErrPBaaSHeaderNotFound = errors.New("PBaaS header not found")
)

// GetPBaaSHeader returns the first record embedded in header for chainID,
// along with its index
func GetPBaaSHeader(header *externalapi.DomainBlockHeader, chainID *externalapi.DomainChainID) (
	*externalapi.PBaaSBlockHeader, int, bool) {

	if !header.IsExtended() || solution.PBaaSHeaderCount(header.Solution) == 0 {
		return nil, -1, false
	}
	vector, err := solution.Parse(header.Solution)
	if err != nil {
		return nil, -1, false
	}
	return vector.Find(chainID)
}

// AddPBaaSHeader appends record to the solution of header and returns its index.
// Once the solution carries arbitrary extra data nothing can be appended.
func AddPBaaSHeader(header *externalapi.DomainBlockHeader, record *externalapi.PBaaSBlockHeader) (int, error) {
	vector, err := solution.Parse(header.Solution)
	if err != nil {
		return -1, err
	}
	if vector.ExtraDataSize() != 0 {
		return -1, errors.Wrapf(ErrSolutionFull, "solution carries %d bytes of extra data",
			vector.ExtraDataSize())
	}
	if vector.RemainingCapacity() < solution.RecordSize {
		return -1, errors.Wrapf(ErrSolutionFull, "%d bytes left, a PBaaS header takes %d",
			vector.RemainingCapacity(), solution.RecordSize)
	}

	index := vector.Append(record)
	err = writeBack(header, vector)
	if err != nil {
		return -1, err
	}
	log.Tracef("Added PBaaS header for chain %s at index %d", record.ChainID, index)
	return index, nil
}

// UpdatePBaaSHeader overwrites the record embedded in header for the chain of record
func UpdatePBaaSHeader(header *externalapi.DomainBlockHeader, record *externalapi.PBaaSBlockHeader) error {
	err := checkPBaaSHeadersActive(header)
	if err != nil {
		return err
	}
	_, index, ok := GetPBaaSHeader(header, &record.ChainID)
	if !ok {
		return errors.Wrapf(ErrPBaaSHeaderNotFound, "chain %s", record.ChainID)
	}

	vector, err := solution.Parse(header.Solution)
	if err != nil {
		return err
	}
	err = vector.Set(index, record)
	if err != nil {
		return err
	}
	return writeBack(header, vector)
}

// AddUpdatePBaaSHeader updates the record for the chain of record if header
// already embeds one, and appends record otherwise
func AddUpdatePBaaSHeader(header *externalapi.DomainBlockHeader, record *externalapi.PBaaSBlockHeader) error {
	err := checkPBaaSHeadersActive(header)
	if err != nil {
		return err
	}
	if _, _, ok := GetPBaaSHeader(header, &record.ChainID); ok {
		return UpdatePBaaSHeader(header, record)
	}
	_, err = AddPBaaSHeader(header, record)
	return err
}

// AddUpdateLocalPBaaSHeader commits header to its own pre-header on behalf of
// chainID, which is the local chain when assembling a block
func AddUpdateLocalPBaaSHeader(header *externalapi.DomainBlockHeader, chainID *externalapi.DomainChainID) error {
	err := checkPBaaSHeadersActive(header)
	if err != nil {
		return err
	}
	return AddUpdatePBaaSHeader(header, NewPBaaSBlockHeader(chainID, NewPreHeader(header)))
}

func checkPBaaSHeadersActive(header *externalapi.DomainBlockHeader) error {
	if !header.IsExtended() {
		return errors.Wrapf(ErrPBaaSHeadersInactive, "header version %d", header.Version)
	}
	if version := solution.Version(header.Solution); version < solution.ActivatePBaaSHeader {
		return errors.Wrapf(ErrPBaaSHeadersInactive, "solution version %d", version)
	}
	return nil
}

func writeBack(header *externalapi.DomainBlockHeader, vector *solution.Vector) error {
	serialized, err := vector.Serialize()
	if err != nil {
		if errors.Is(err, solution.ErrCapacityExceeded) {
			return errors.Wrap(ErrSolutionFull, err.Error())
		}
		return err
	}
	header.Solution = serialized
	return nil
}
