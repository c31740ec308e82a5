package smartwallet

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Known factory deployments per kind. These are defaults, not compiled-in
// state: construct a Registry with your own addresses to target other
// networks or local devnets.
var (
	// stackup simple account factory
	simpleAccountFactory = common.HexToAddress("0x9406Cc6185a346906296840746125a0E44976454")
	// simple account factory on a local geth devnet
	gethSimpleAccountFactory = common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512")
	// modular smart account factory on Sepolia
	msaFactorySepolia = common.HexToAddress("0xc1f3f2dBbe9498FE9A2Fd75dEa6507A57033fe42")
)

type registryEntry struct {
	factoryKind FactoryKind
	factory     common.Address
}

// Registry maps kind labels to account implementations and deployed factory
// addresses. It is immutable after construction; lookups for unknown labels
// fail with the corresponding unsupported-kind error.
type Registry struct {
	entries map[Kind]registryEntry
}

// NewRegistry builds a registry from explicit per-kind factory addresses.
func NewRegistry(entries map[Kind]common.Address) *Registry {
	r := &Registry{entries: make(map[Kind]registryEntry, len(entries))}
	for kind, addr := range entries {
		r.entries[kind] = registryEntry{factoryKind: factoryKindFor(kind), factory: addr}
	}
	return r
}

// DefaultRegistry resolves the four supported kinds against the known
// deployments.
func DefaultRegistry() *Registry {
	return NewRegistry(map[Kind]common.Address{
		KindSimpleAccount:     simpleAccountFactory,
		KindSimpleAccountTest: gethSimpleAccountFactory,
		KindMSABasic:          msaFactorySepolia,
		KindMSASepolia:        msaFactorySepolia,
	})
}

func factoryKindFor(kind Kind) FactoryKind {
	switch kind {
	case KindMSABasic, KindMSASepolia:
		return FactoryMSABasic
	default:
		return FactorySimpleAccount
	}
}

// Account resolves the account capability for a kind label.
func (r *Registry) Account(kind Kind) (Account, error) {
	if _, ok := r.entries[kind]; !ok {
		return Account{}, &UnsupportedWalletKindError{Kind: string(kind)}
	}
	return Account{kind: kind}, nil
}

// FactoryAddress resolves the deployed factory address for a kind label.
func (r *Registry) FactoryAddress(kind Kind) (common.Address, error) {
	entry, ok := r.entries[kind]
	if !ok {
		return common.Address{}, &UnsupportedFactoryKindError{Kind: string(kind)}
	}
	return entry.factory, nil
}

// Factory resolves and binds the factory for a kind label against the given
// chain backend.
func (r *Registry) Factory(kind Kind, backend bind.ContractBackend) (Factory, error) {
	entry, ok := r.entries[kind]
	if !ok {
		return Factory{}, &UnsupportedFactoryKindError{Kind: string(kind)}
	}
	return NewFactory(entry.factoryKind, entry.factory, backend)
}
