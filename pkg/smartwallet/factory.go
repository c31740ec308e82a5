package smartwallet

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/AvaProtocol/aa-sdk/core/chainio/aa"
)

// Factory is a tagged union over the two factory shapes. Exactly one of the
// bindings is non-nil, selected by kind. Address queries and deployments are
// chain reads/writes through the bound contract; RPC failures propagate from
// the underlying client wrapped with the factory's context.
type Factory struct {
	kind    FactoryKind
	address common.Address

	simple  *aa.SimpleFactory
	modular *aa.MSAFactory
}

// NewFactory binds the factory deployed at address with the given shape.
func NewFactory(kind FactoryKind, address common.Address, backend bind.ContractBackend) (Factory, error) {
	f := Factory{kind: kind, address: address}
	var err error
	switch kind {
	case FactorySimpleAccount:
		f.simple, err = aa.NewSimpleFactory(address, backend)
	case FactoryMSABasic:
		f.modular, err = aa.NewMSAFactory(address, backend)
	default:
		err = fmt.Errorf("unknown factory kind %d", kind)
	}
	if err != nil {
		return Factory{}, err
	}
	return f, nil
}

func (f Factory) Kind() FactoryKind {
	return f.kind
}

func (f Factory) Address() common.Address {
	return f.address
}

// GetAddress queries the counterfactual account address for a salt without
// deploying, dispatching on the factory shape: simple factories take
// (creator, salt) directly, modular factories take the hashed salt plus an
// empty init code.
func (f Factory) GetAddress(ctx context.Context, creator common.Address, salt uint64) (common.Address, error) {
	opts := &bind.CallOpts{Context: ctx}
	switch f.kind {
	case FactorySimpleAccount:
		return f.simple.GetAddress(opts, creator, new(big.Int).SetUint64(salt))
	case FactoryMSABasic:
		return f.modular.GetAddress(opts, HashedSalt(salt), []byte{})
	}
	return common.Address{}, fmt.Errorf("unknown factory kind %d", f.kind)
}

// CreateAccount deploys the account for the salt, using the same argument
// dispatch as GetAddress.
func (f Factory) CreateAccount(opts *bind.TransactOpts, creator common.Address, salt uint64) error {
	switch f.kind {
	case FactorySimpleAccount:
		_, err := f.simple.CreateAccount(opts, creator, new(big.Int).SetUint64(salt))
		return err
	case FactoryMSABasic:
		_, err := f.modular.CreateAccount(opts, HashedSalt(salt), []byte{})
		return err
	}
	return fmt.Errorf("unknown factory kind %d", f.kind)
}

// FactoryData encodes the createAccount calldata for embedding into an
// operation's factoryData field.
func (f Factory) FactoryData(creator common.Address, salt uint64) ([]byte, error) {
	switch f.kind {
	case FactorySimpleAccount:
		return f.simple.CreateAccountCalldata(creator, new(big.Int).SetUint64(salt))
	case FactoryMSABasic:
		return f.modular.CreateAccountCalldata(HashedSalt(salt), []byte{})
	}
	return nil, fmt.Errorf("unknown factory kind %d", f.kind)
}

// Clone returns a copy of the binding. The underlying bound contracts are
// immutable after construction, so clones never observe each other's state.
func (f Factory) Clone() Factory {
	return f
}

// HashedSalt maps a numeric salt into the modular factory's bytes32 salt
// space: keccak256 over the salt's 8-byte big-endian encoding. The deployed
// factories expect exactly this layout; changing it changes every derived
// address.
func HashedSalt(salt uint64) [32]byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], salt)

	var out [32]byte
	copy(out[:], crypto.Keccak256(buf[:]))
	return out
}
