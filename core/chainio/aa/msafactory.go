package aa

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Modular smart account factory (ERC-7579 MSA shape): accounts are addressed
// by (salt, initCode) where initCode carries the bootstrap configuration.
const msaFactoryABI = `[{"inputs":[{"internalType":"bytes32","name":"salt","type":"bytes32"},{"internalType":"bytes","name":"initCode","type":"bytes"}],"name":"createAccount","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"payable","type":"function"},{"inputs":[{"internalType":"bytes32","name":"salt","type":"bytes32"},{"internalType":"bytes","name":"initcode","type":"bytes"}],"name":"getAddress","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}]`

type MSAFactory struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

func NewMSAFactory(address common.Address, backend bind.ContractBackend) (*MSAFactory, error) {
	parsed, err := abi.JSON(strings.NewReader(msaFactoryABI))
	if err != nil {
		return nil, fmt.Errorf("invalid msa factory ABI: %w", err)
	}
	return &MSAFactory{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (f *MSAFactory) Address() common.Address {
	return f.address
}

func (f *MSAFactory) GetAddress(opts *bind.CallOpts, salt [32]byte, initCode []byte) (common.Address, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getAddress", salt, initCode); err != nil {
		return common.Address{}, fmt.Errorf("msa factory getAddress: %w", err)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (f *MSAFactory) CreateAccount(opts *bind.TransactOpts, salt [32]byte, initCode []byte) (*types.Transaction, error) {
	return f.contract.Transact(opts, "createAccount", salt, initCode)
}

func (f *MSAFactory) CreateAccountCalldata(salt [32]byte, initCode []byte) ([]byte, error) {
	return f.abi.Pack("createAccount", salt, initCode)
}
