package verushash

import "fmt"

// Variant identifies one of the header hash algorithms
type Variant uint8

// Variant constants
const (
	V1 Variant = iota
	V2
	V2B
	V2B1
	V2B2
	SHA256D
)

var variantStrings = map[Variant]string{
	V1:      "VerusHash",
	V2:      "VerusHashV2",
	V2B:     "VerusHashV2b",
	V2B1:    "VerusHashV2b1",
	V2B2:    "VerusHashV2b2",
	SHA256D: "SHA256D",
}

// Variants lists every known variant
var Variants = []Variant{V1, V2, V2B, V2B1, V2B2, SHA256D}

// String returns the Variant in human-readable form.
func (v Variant) String() string {
	if s, ok := variantStrings[v]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Variant (%d)", uint8(v))
}
