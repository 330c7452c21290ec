package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainChainIDSize is the size of a chain identifier in bytes
const DomainChainIDSize = 20

// DomainChainID is the domain representation of a 160-bit PBaaS chain identifier
type DomainChainID [DomainChainIDSize]byte

// NewDomainChainIDFromString parses a hex-encoded chain identifier
func NewDomainChainIDFromString(chainIDString string) (*DomainChainID, error) {
	if len(chainIDString) != DomainChainIDSize*2 {
		return nil, errors.Errorf("chain ID string length is %d, while it should be be %d",
			len(chainIDString), DomainChainIDSize*2)
	}

	chainIDBytes, err := hex.DecodeString(chainIDString)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var chainID DomainChainID
	copy(chainID[:], chainIDBytes)
	return &chainID, nil
}

// String returns the chain ID as a hexadecimal string
func (id DomainChainID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero returns whether the chain ID was cleared
func (id *DomainChainID) IsZero() bool {
	return *id == DomainChainID{}
}
