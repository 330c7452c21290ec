package solution

import (
	"encoding/binary"

	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
)

// DescriptorSize is the number of leading solution bytes that make up the descriptor
const DescriptorSize = 8

// FormatMarkerExtended marks a solution that starts with a descriptor
const FormatMarkerExtended = 4

// RecordSize is the size of one embedded PBaaS block header
const RecordSize = externalapi.PBaaSBlockHeaderSize

// Solution versions. Each version activates the protocol change named by the
// matching Activate constant.
const (
	VersionVerusV1   = 0
	VersionVerusV2   = 1
	VersionVerusV3   = 2
	VersionVerusV4   = 3
	VersionVerusV5   = 4
	VersionVerusV5_1 = 5
	VersionVerusV6   = 6
	VersionVerusV7   = 7

	ActivateVerusHash2       = VersionVerusV2
	ActivateExtendedSolution = VersionVerusV3
	ActivateVerusHash2_1     = VersionVerusV4
	ActivatePBaaS            = VersionVerusV5
	ActivatePBaaSHeader      = VersionVerusV5_1
)

const (
	formatMarkerOffset    = 0
	descrBitsOffset       = 1
	versionOffset         = 2
	numPBaaSHeadersOffset = 4
	extraDataSizeOffset   = 6
)

// Descriptor is the decoded form of the leading DescriptorSize solution bytes.
// The reserved bytes are carried so that a decoded descriptor encodes back to
// exactly the same bytes.
type Descriptor struct {
	FormatMarker    uint8
	DescrBits       uint8
	Version         uint8
	Reserved0       uint8
	NumPBaaSHeaders uint8
	Reserved1       uint8
	ExtraDataSize   uint16
}

func decodeDescriptor(b []byte) Descriptor {
	return Descriptor{
		FormatMarker:    b[formatMarkerOffset],
		DescrBits:       b[descrBitsOffset],
		Version:         b[versionOffset],
		Reserved0:       b[versionOffset+1],
		NumPBaaSHeaders: b[numPBaaSHeadersOffset],
		Reserved1:       b[numPBaaSHeadersOffset+1],
		ExtraDataSize:   binary.LittleEndian.Uint16(b[extraDataSizeOffset:]),
	}
}

func (d *Descriptor) encode(b []byte) {
	b[formatMarkerOffset] = d.FormatMarker
	b[descrBitsOffset] = d.DescrBits
	b[versionOffset] = d.Version
	b[versionOffset+1] = d.Reserved0
	b[numPBaaSHeadersOffset] = d.NumPBaaSHeaders
	b[numPBaaSHeadersOffset+1] = d.Reserved1
	binary.LittleEndian.PutUint16(b[extraDataSizeOffset:], d.ExtraDataSize)
}

// IsExtended returns whether the descriptor carries the extended format marker
func (d *Descriptor) IsExtended() bool {
	return d.FormatMarker == FormatMarkerExtended
}

// FormatMarker returns the format marker of a raw solution, or 0 if the solution is empty
func FormatMarker(solution []byte) uint8 {
	if len(solution) <= formatMarkerOffset {
		return 0
	}
	return solution[formatMarkerOffset]
}

// Version returns the sub-version marker of a raw solution, or 0 if the
// solution is too short to hold one
func Version(solution []byte) uint8 {
	if len(solution) <= versionOffset {
		return 0
	}
	return solution[versionOffset]
}
