package consensushashing

import (
	"io"

	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/blockheader"
	"github.com/verusnet/verushashd/domain/consensus/utils/hashes"
	"github.com/verusnet/verushashd/domain/consensus/utils/verushash"
	"github.com/verusnet/verushashd/domain/dagconfig"
)

// The Compute functions never fail: input that does not decode to a header,
// or a header no engine can hash, yields the zero hash.

var defaultHasher = New(&dagconfig.MainnetParams, verushash.DefaultProvider())

// ComputeHash returns the digest of the serialized header headerBytes
func (hh *HeaderHasher) ComputeHash(headerBytes []byte) *externalapi.DomainHash {
	header, err := blockheader.HeaderFromBytes(headerBytes)
	if err != nil {
		log.Debugf("Returning the zero hash for %d bytes of input: %s", len(headerBytes), err)
		return &externalapi.DomainHash{}
	}
	return hh.headerHashOrZero(header)
}

// ComputeHashReversed returns ComputeHash with its bytes in reverse order
func (hh *HeaderHasher) ComputeHashReversed(headerBytes []byte) *externalapi.DomainHash {
	return hashes.Reversed(hh.ComputeHash(headerBytes))
}

// ComputeHashWithHeight returns the digest of the serialized header
// headerBytes using the algorithm active at height
func (hh *HeaderHasher) ComputeHashWithHeight(headerBytes []byte, height uint64) *externalapi.DomainHash {
	header, err := blockheader.HeaderFromBytes(headerBytes)
	if err != nil {
		log.Debugf("Returning the zero hash for %d bytes of input at height %d: %s", len(headerBytes), height, err)
		return &externalapi.DomainHash{}
	}
	hash, err := hh.HeaderHashForHeight(header, height)
	if err != nil {
		log.Debugf("Returning the zero hash for a header at height %d: %s", height, err)
		return &externalapi.DomainHash{}
	}
	return hash
}

// ComputeHashWithHeightReversed returns ComputeHashWithHeight with its bytes
// in reverse order
func (hh *HeaderHasher) ComputeHashWithHeightReversed(headerBytes []byte, height uint64) *externalapi.DomainHash {
	return hashes.Reversed(hh.ComputeHashWithHeight(headerBytes, height))
}

// ParseHeaderAndHash reads one header from r and returns its digest. Bytes
// following the header are left unread.
func (hh *HeaderHasher) ParseHeaderAndHash(r io.Reader) *externalapi.DomainHash {
	header, err := blockheader.DeserializeHeader(r)
	if err != nil {
		log.Debugf("Returning the zero hash for an unreadable header: %s", err)
		return &externalapi.DomainHash{}
	}
	return hh.headerHashOrZero(header)
}

func (hh *HeaderHasher) headerHashOrZero(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	hash, err := hh.HeaderHash(header)
	if err != nil {
		log.Debugf("Returning the zero hash for a header: %s", err)
		return &externalapi.DomainHash{}
	}
	return hash
}

// ComputeHash returns the digest of headerBytes on the main network
func ComputeHash(headerBytes []byte) *externalapi.DomainHash {
	return defaultHasher.ComputeHash(headerBytes)
}

// ComputeHashReversed returns the reversed digest of headerBytes on the main network
func ComputeHashReversed(headerBytes []byte) *externalapi.DomainHash {
	return defaultHasher.ComputeHashReversed(headerBytes)
}

// ComputeHashWithHeight returns the digest of headerBytes at height on the main network
func ComputeHashWithHeight(headerBytes []byte, height uint64) *externalapi.DomainHash {
	return defaultHasher.ComputeHashWithHeight(headerBytes, height)
}

// ComputeHashWithHeightReversed returns the reversed digest of headerBytes at
// height on the main network
func ComputeHashWithHeightReversed(headerBytes []byte, height uint64) *externalapi.DomainHash {
	return defaultHasher.ComputeHashWithHeightReversed(headerBytes, height)
}

// ParseHeaderAndHash reads one header from r and returns its digest on the main network
func ParseHeaderAndHash(r io.Reader) *externalapi.DomainHash {
	return defaultHasher.ParseHeaderAndHash(r)
}
