// Package smartwallet is the account capability layer: a closed set of smart
// wallet kinds, the registries mapping kind labels to account and factory
// bindings, and the calldata encoders for each account's execute entry point.
package smartwallet

import "fmt"

// Kind is a human-readable smart wallet kind label.
type Kind string

const (
	KindSimpleAccount     Kind = "simple-account"
	KindSimpleAccountTest Kind = "simple-account-test"
	KindMSABasic          Kind = "msa-basic-account"
	KindMSASepolia        Kind = "msa-account-sepolia"
)

// FactoryKind selects the factory argument shape: (owner, salt) for simple
// account factories, (salt, initCode) for modular account factories.
type FactoryKind int

const (
	FactorySimpleAccount FactoryKind = iota
	FactoryMSABasic
)

// SupportedKinds lists every kind label both registries resolve.
func SupportedKinds() []Kind {
	return []Kind{KindSimpleAccount, KindSimpleAccountTest, KindMSABasic, KindMSASepolia}
}

// IsSupportedKind reports whether the label is one of the supported kinds.
func IsSupportedKind(kind Kind) bool {
	for _, k := range SupportedKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// UnsupportedWalletKindError is returned by the account registry for unknown
// labels.
type UnsupportedWalletKindError struct {
	Kind string
}

func (e *UnsupportedWalletKindError) Error() string {
	return fmt.Sprintf("%s wallet currently not supported", e.Kind)
}

// UnsupportedFactoryKindError is returned by the factory-address registry for
// unknown labels.
type UnsupportedFactoryKindError struct {
	Kind string
}

func (e *UnsupportedFactoryKindError) Error() string {
	return fmt.Sprintf("%s's factory not supported", e.Kind)
}
