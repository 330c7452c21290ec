package dagconfig

import (
	"github.com/pkg/errors"

	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/solution"
)

// ActivationHeights maps a solution version to the first block height at
// which it is active.
type ActivationHeights map[uint8]uint64

// Params defines a network by the constants that header hashing depends on.
// Params values are shared by every caller and must not be mutated.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// ChainID is the identifier of the local chain. Embedded PBaaS headers
	// carrying this ID are checked first during canonicalization.
	ChainID externalapi.DomainChainID

	// Magic defines the magic bytes used to identify the network.
	Magic uint32

	// ActivationHeights holds the activation height of each solution version
	// that is enabled by height rather than by header markers.
	ActivationHeights ActivationHeights
}

// ActivationHeight returns the height at which the given solution version
// activates, and false if the network never activates it by height.
func (p *Params) ActivationHeight(solutionVersion uint8) (uint64, bool) {
	height, ok := p.ActivationHeights[solutionVersion]
	return height, ok
}

// IsActiveAtHeight returns whether the given solution version is active at height.
func (p *Params) IsActiveAtHeight(solutionVersion uint8, height uint64) bool {
	activationHeight, ok := p.ActivationHeight(solutionVersion)
	return ok && height >= activationHeight
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:    "mainnet",
	ChainID: newChainIDFromStr("1af5b8015c64d39ab44c60ead8317f9f5a9b6c4c"),
	Magic:   2387029918,
	ActivationHeights: ActivationHeights{
		solution.ActivateVerusHash2:   310000,
		solution.ActivateVerusHash2_1: 800200,
	},
}

// DevnetParams defines the network parameters for the development network.
// Every height-activated upgrade is live from the first block.
var DevnetParams = Params{
	Name:    "devnet",
	ChainID: newChainIDFromStr("a6e0b3d28e1f4b8a06c51b2c8ee0e3c1b95c2f7d"),
	Magic:   0x5a4d8e3b,
	ActivationHeights: ActivationHeights{
		solution.ActivateVerusHash2:   1,
		solution.ActivateVerusHash2_1: 1,
	},
}

var (
	// ErrDuplicateNet describes an error where the parameters for a network
	// could not be set due to the network already being a standard network
	// or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")
)

var registeredNets = make(map[uint32]struct{})

// Register registers the network parameters for a network. This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks).
func Register(params *Params) error {
	if _, ok := registeredNets[params.Magic]; ok {
		return errors.Wrapf(ErrDuplicateNet, "network %s with magic %d", params.Name, params.Magic)
	}
	registeredNets[params.Magic] = struct{}{}

	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// newChainIDFromStr converts the passed hex string into a chain ID. It panics
// on an error since it must only be called with hard-coded chain IDs.
func newChainIDFromStr(chainIDStr string) externalapi.DomainChainID {
	chainID, err := externalapi.NewDomainChainIDFromString(chainIDStr)
	if err != nil {
		panic(err)
	}
	return *chainID
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainnetParams)
	mustRegister(&DevnetParams)
}
