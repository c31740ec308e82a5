package userop

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/AvaProtocol/aa-sdk/pkg/smartwallet"
)

// Builder accumulates the fields of a UserOperation for one smart wallet
// kind. Setters are pure mutations with no validation; all validation happens
// in Finalize, and the only network-backed step is DeriveAddress.
type Builder struct {
	registry *smartwallet.Registry
	backend  bind.ContractBackend

	kind           smartwallet.Kind
	account        smartwallet.Account
	factory        smartwallet.Factory
	factoryAddress common.Address

	signerAddress common.Address
	scwAddress    *common.Address
	salt          *uint64

	op     *UserOperationPartial
	opHash *common.Hash
}

// NewBuilder resolves the account and factory bindings for the kind and
// starts from an empty partial operation. A nil registry selects the default
// deployments. scwAddress and salt are optional; DeriveAddress fills the
// former from the latter on demand.
func NewBuilder(
	backend bind.ContractBackend,
	registry *smartwallet.Registry,
	signerAddress common.Address,
	kind smartwallet.Kind,
	scwAddress *common.Address,
	salt *uint64,
) (*Builder, error) {
	if registry == nil {
		registry = smartwallet.DefaultRegistry()
	}

	b := &Builder{
		registry:      registry,
		backend:       backend,
		signerAddress: signerAddress,
		scwAddress:    scwAddress,
		salt:          salt,
		op:            &UserOperationPartial{},
	}
	if err := b.resolve(kind); err != nil {
		return nil, err
	}
	return b, nil
}

// FromPartial reconstructs a builder around an externally received partial
// operation, for example one that came back from gas estimation.
func FromPartial(
	backend bind.ContractBackend,
	registry *smartwallet.Registry,
	op *UserOperationPartial,
	kind smartwallet.Kind,
) (*Builder, error) {
	b, err := NewBuilder(backend, registry, common.Address{}, kind, nil, nil)
	if err != nil {
		return nil, err
	}
	b.op = op
	return b, nil
}

func (b *Builder) resolve(kind smartwallet.Kind) error {
	account, err := b.registry.Account(kind)
	if err != nil {
		return err
	}
	factory, err := b.registry.Factory(kind, b.backend)
	if err != nil {
		return err
	}

	b.kind = kind
	b.account = account
	b.factory = factory
	b.factoryAddress = factory.Address()
	return nil
}

// SwitchKind re-resolves the account and factory bindings in place, leaving
// every accumulated field value untouched.
func (b *Builder) SwitchKind(kind smartwallet.Kind) error {
	return b.resolve(kind)
}

// Clone deep-copies the builder: the accumulator and the capability bindings
// are duplicated, so mutations on the clone never show through.
func (b *Builder) Clone() *Builder {
	c := &Builder{
		registry:       b.registry,
		backend:        b.backend,
		kind:           b.kind,
		account:        b.account.Clone(),
		factory:        b.factory.Clone(),
		factoryAddress: b.factoryAddress,
		signerAddress:  b.signerAddress,
		op:             b.op.Clone(),
	}
	if b.scwAddress != nil {
		addr := *b.scwAddress
		c.scwAddress = &addr
	}
	if b.salt != nil {
		salt := *b.salt
		c.salt = &salt
	}
	if b.opHash != nil {
		h := *b.opHash
		c.opHash = &h
	}
	return c
}

func (b *Builder) Kind() smartwallet.Kind            { return b.kind }
func (b *Builder) Account() smartwallet.Account      { return b.account }
func (b *Builder) Factory() smartwallet.Factory      { return b.factory }
func (b *Builder) FactoryAddress() common.Address    { return b.factoryAddress }
func (b *Builder) SignerAddress() common.Address     { return b.signerAddress }
func (b *Builder) WalletAddress() *common.Address    { return b.scwAddress }
func (b *Builder) Salt() *uint64                     { return b.salt }
func (b *Builder) Partial() *UserOperationPartial    { return b.op }
func (b *Builder) Hash() *common.Hash                { return b.opHash }

// SetPartial replaces the whole accumulator.
func (b *Builder) SetPartial(op *UserOperationPartial) *Builder {
	b.op = op
	return b
}

func (b *Builder) SetHash(hash common.Hash) *Builder {
	b.opHash = &hash
	return b
}

// DeriveAddress asks the factory for the counterfactual wallet address of the
// builder's salt, stores it, and returns it. The factory shape decides the
// query arguments; the chain-client failure, if any, propagates unchanged.
func (b *Builder) DeriveAddress(ctx context.Context) (common.Address, error) {
	if b.salt == nil {
		return common.Address{}, ErrSaltNotSet
	}

	// The reference deployment registers the factory itself as creator for
	// simple-account address derivation.
	addr, err := b.factory.GetAddress(ctx, b.factoryAddress, *b.salt)
	if err != nil {
		return common.Address{}, err
	}
	b.scwAddress = &addr
	return addr, nil
}

func (b *Builder) SetSender(sender common.Address) *Builder {
	b.op.Sender = &sender
	return b
}

func (b *Builder) SetNonce(nonce *big.Int) *Builder {
	b.op.Nonce = copyBig(nonce)
	return b
}

func (b *Builder) SetFactory(factory common.Address) *Builder {
	b.op.Factory = &factory
	return b
}

func (b *Builder) SetFactoryData(data []byte) *Builder {
	b.op.FactoryData = emptyIfNil(data)
	return b
}

func (b *Builder) SetCallData(data []byte) *Builder {
	b.op.CallData = emptyIfNil(data)
	return b
}

func (b *Builder) SetCallGasLimit(limit *big.Int) *Builder {
	b.op.CallGasLimit = copyBig(limit)
	return b
}

func (b *Builder) SetVerificationGasLimit(limit *big.Int) *Builder {
	b.op.VerificationGasLimit = copyBig(limit)
	return b
}

func (b *Builder) SetPreVerificationGas(gas *big.Int) *Builder {
	b.op.PreVerificationGas = copyBig(gas)
	return b
}

func (b *Builder) SetMaxFeePerGas(fee *big.Int) *Builder {
	b.op.MaxFeePerGas = copyBig(fee)
	return b
}

func (b *Builder) SetMaxPriorityFeePerGas(fee *big.Int) *Builder {
	b.op.MaxPriorityFeePerGas = copyBig(fee)
	return b
}

func (b *Builder) SetPaymaster(paymaster string) *Builder {
	b.op.Paymaster = &paymaster
	return b
}

func (b *Builder) SetPaymasterVerificationGasLimit(limit *big.Int) *Builder {
	b.op.PaymasterVerificationGasLimit = copyBig(limit)
	return b
}

func (b *Builder) SetPaymasterPostOpGasLimit(limit *big.Int) *Builder {
	b.op.PaymasterPostOpGasLimit = copyBig(limit)
	return b
}

func (b *Builder) SetPaymasterData(data []byte) *Builder {
	b.op.PaymasterData = emptyIfNil(data)
	return b
}

func (b *Builder) SetSignature(sig []byte) *Builder {
	b.op.Signature = emptyIfNil(sig)
	return b
}

// Finalize requires every field, signature included, to be present for a
// submit-ready operation. The first missing field in declaration order is
// reported by name. No defaulting happens here; that belongs to the
// construction helpers.
func (b *Builder) Finalize() (*UserOperation, error) {
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"sender", b.op.Sender != nil},
		{"nonce", b.op.Nonce != nil},
		{"factory", b.op.Factory != nil},
		{"factory_data", b.op.FactoryData != nil},
		{"call_data", b.op.CallData != nil},
		{"call_gas_limit", b.op.CallGasLimit != nil},
		{"verification_gas_limit", b.op.VerificationGasLimit != nil},
		{"pre_verification_gas", b.op.PreVerificationGas != nil},
		{"max_fee_per_gas", b.op.MaxFeePerGas != nil},
		{"max_priority_fee_per_gas", b.op.MaxPriorityFeePerGas != nil},
		{"paymaster", b.op.Paymaster != nil},
		{"paymaster_verification_gas_limit", b.op.PaymasterVerificationGasLimit != nil},
		{"paymaster_post_op_gas_limit", b.op.PaymasterPostOpGasLimit != nil},
		{"paymaster_data", b.op.PaymasterData != nil},
		{"signature", b.op.Signature != nil},
	} {
		if !f.set {
			return nil, &MissingFieldError{Field: f.name}
		}
	}

	op := b.op.ToUserOperation()
	return &op, nil
}
