// Package solution provides a structured view over the solution field of a
// block header: its descriptor, the PBaaS block headers embedded after it,
// and the opaque remainder of the extra-data region.
package solution

import (
	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
)

var (
	// ErrMalformedSolution indicates a solution too short to hold a descriptor
	ErrMalformedSolution = errors.New("malformed solution")

	// ErrCapacityExceeded indicates that the records of a Vector do not fit
	// in the extra-data region of its solution
	ErrCapacityExceeded = errors.New("solution capacity exceeded")

	// ErrRecordIndexOutOfRange indicates an index past the last record
	ErrRecordIndexOutOfRange = errors.New("record index out of range")
)

// Vector is an owned, mutable view of a solution. Records are kept as an
// ordered slice; the fixed-size wire form is only produced by Serialize.
type Vector struct {
	descriptor Descriptor
	records    []externalapi.PBaaSBlockHeader
	extraData  []byte
}

// Parse decodes solution into a Vector. The solution bytes are copied.
// A descriptor announcing more records than the extra-data region can hold
// is truncated to the records that fit.
func Parse(solution []byte) (*Vector, error) {
	if len(solution) < DescriptorSize {
		return nil, errors.Wrapf(ErrMalformedSolution, "solution is %d bytes long, while "+
			"a descriptor takes %d", len(solution), DescriptorSize)
	}

	v := &Vector{
		descriptor: decodeDescriptor(solution),
		extraData:  append([]byte{}, solution[DescriptorSize:]...),
	}

	numRecords := int(v.descriptor.NumPBaaSHeaders)
	if numRecords > len(v.extraData)/RecordSize {
		numRecords = len(v.extraData) / RecordSize
	}
	v.records = make([]externalapi.PBaaSBlockHeader, numRecords)
	for i := range v.records {
		v.records[i] = decodeRecord(v.extraData[i*RecordSize : (i+1)*RecordSize])
	}
	return v, nil
}

// New returns an empty Vector with the given descriptor and an extra-data
// region of capacity bytes
func New(descriptor Descriptor, capacity int) *Vector {
	descriptor.NumPBaaSHeaders = 0
	return &Vector{
		descriptor: descriptor,
		records:    []externalapi.PBaaSBlockHeader{},
		extraData:  make([]byte, capacity),
	}
}

// Descriptor returns the descriptor, with NumPBaaSHeaders reflecting the
// records currently held
func (v *Vector) Descriptor() Descriptor {
	descriptor := v.descriptor
	descriptor.NumPBaaSHeaders = uint8(len(v.records))
	return descriptor
}

// IsExtended returns whether the solution uses the extended format
func (v *Vector) IsExtended() bool {
	return v.descriptor.IsExtended()
}

// Version returns the solution sub-version
func (v *Vector) Version() uint8 {
	return v.descriptor.Version
}

// ExtraDataSize returns the size of the arbitrary payload announced by the descriptor
func (v *Vector) ExtraDataSize() uint16 {
	return v.descriptor.ExtraDataSize
}

// Capacity returns the size of the extra-data region in bytes
func (v *Vector) Capacity() int {
	return len(v.extraData)
}

// RemainingCapacity returns how many bytes of the extra-data region are not
// occupied by records. It is negative once more records were appended than fit.
func (v *Vector) RemainingCapacity() int {
	return len(v.extraData) - len(v.records)*RecordSize
}

// NumRecords returns the number of embedded PBaaS block headers
func (v *Vector) NumRecords() int {
	return len(v.records)
}

// Record returns the record at index i. Any out of range index is reported
// as not found.
func (v *Vector) Record(i int) (*externalapi.PBaaSBlockHeader, bool) {
	if i < 0 || i >= len(v.records) {
		return nil, false
	}
	record := v.records[i]
	return &record, true
}

// Records returns a copy of the embedded records in order
func (v *Vector) Records() []externalapi.PBaaSBlockHeader {
	return append([]externalapi.PBaaSBlockHeader{}, v.records...)
}

// Find returns the first record for chainID and its index
func (v *Vector) Find(chainID *externalapi.DomainChainID) (*externalapi.PBaaSBlockHeader, int, bool) {
	for i := range v.records {
		if v.records[i].ChainID == *chainID {
			record := v.records[i]
			return &record, i, true
		}
	}
	return nil, -1, false
}

// Append adds record after the last record and returns its index. Capacity is
// checked by Serialize, not here.
func (v *Vector) Append(record *externalapi.PBaaSBlockHeader) int {
	v.records = append(v.records, *record)
	return len(v.records) - 1
}

// Set overwrites the record at index i
func (v *Vector) Set(i int, record *externalapi.PBaaSBlockHeader) error {
	if i < 0 || i >= len(v.records) {
		return errors.Wrapf(ErrRecordIndexOutOfRange, "index %d, %d records", i, len(v.records))
	}
	v.records[i] = *record
	return nil
}

// Serialize encodes the vector back into a solution of the original length.
// Records overwrite the start of the extra-data region; the bytes after them
// are kept as they were.
func (v *Vector) Serialize() ([]byte, error) {
	if v.RemainingCapacity() < 0 {
		return nil, errors.Wrapf(ErrCapacityExceeded, "%d records need %d bytes, extra-data region is %d bytes",
			len(v.records), len(v.records)*RecordSize, len(v.extraData))
	}
	if len(v.records) > 0xff {
		return nil, errors.Wrapf(ErrCapacityExceeded, "%d records can't be counted by the descriptor", len(v.records))
	}

	solution := make([]byte, DescriptorSize+len(v.extraData))
	descriptor := v.Descriptor()
	descriptor.encode(solution)

	extraData := solution[DescriptorSize:]
	copy(extraData, v.extraData)
	for i := range v.records {
		encodeRecord(extraData[i*RecordSize:(i+1)*RecordSize], &v.records[i])
	}
	return solution, nil
}

// PBaaSHeaderCount returns the number of PBaaS block headers embedded in
// solution, or zero when the solution is malformed, is not in the extended
// format, or predates PBaaS header activation.
func PBaaSHeaderCount(solution []byte) int {
	v, err := Parse(solution)
	if err != nil {
		return 0
	}
	if !v.IsExtended() || v.Version() < ActivatePBaaSHeader {
		return 0
	}
	return v.NumRecords()
}

func decodeRecord(b []byte) externalapi.PBaaSBlockHeader {
	var record externalapi.PBaaSBlockHeader
	copy(record.ChainID[:], b[:externalapi.DomainChainIDSize])
	var hash [externalapi.DomainHashSize]byte
	copy(hash[:], b[externalapi.DomainChainIDSize:RecordSize])
	record.HashPreHeader = *externalapi.NewDomainHashFromByteArray(&hash)
	return record
}

func encodeRecord(b []byte, record *externalapi.PBaaSBlockHeader) {
	copy(b[:externalapi.DomainChainIDSize], record.ChainID[:])
	copy(b[externalapi.DomainChainIDSize:RecordSize], record.HashPreHeader.ByteSlice())
}
