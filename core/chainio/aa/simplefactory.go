package aa

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Simple-account factory (eth-infinitism SimpleAccountFactory shape):
// accounts are addressed by (owner, salt).
const simpleFactoryABI = `[{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"salt","type":"uint256"}],"name":"createAccount","outputs":[{"internalType":"address","name":"ret","type":"address"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"salt","type":"uint256"}],"name":"getAddress","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}]`

type SimpleFactory struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

func NewSimpleFactory(address common.Address, backend bind.ContractBackend) (*SimpleFactory, error) {
	parsed, err := abi.JSON(strings.NewReader(simpleFactoryABI))
	if err != nil {
		return nil, fmt.Errorf("invalid simple factory ABI: %w", err)
	}
	return &SimpleFactory{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (f *SimpleFactory) Address() common.Address {
	return f.address
}

// GetAddress returns the counterfactual account address for (owner, salt)
// without deploying anything.
func (f *SimpleFactory) GetAddress(opts *bind.CallOpts, owner common.Address, salt *big.Int) (common.Address, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getAddress", owner, salt); err != nil {
		return common.Address{}, fmt.Errorf("simple factory getAddress: %w", err)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (f *SimpleFactory) CreateAccount(opts *bind.TransactOpts, owner common.Address, salt *big.Int) (*types.Transaction, error) {
	return f.contract.Transact(opts, "createAccount", owner, salt)
}

// CreateAccountCalldata encodes the createAccount call without sending it,
// for embedding into factoryData / initCode.
func (f *SimpleFactory) CreateAccountCalldata(owner common.Address, salt *big.Int) ([]byte, error) {
	return f.abi.Pack("createAccount", owner, salt)
}
