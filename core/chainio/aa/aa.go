// Package aa holds slim hand-written bindings for the account-abstraction
// contracts the SDK talks to: the EntryPoint nonce mapping, the two factory
// shapes, and the account execute entry points used to generate calldata.
package aa

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// execute(address dest, uint256 value, bytes func) on simple accounts.
	simpleExecuteABI = `[{"inputs":[{"internalType":"address","name":"dest","type":"address"},{"internalType":"uint256","name":"value","type":"uint256"},{"internalType":"bytes","name":"func","type":"bytes"}],"name":"execute","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

	// execute(bytes32 mode, bytes executionCalldata) on ERC-7579 modular
	// accounts; mode selects single/batch/delegate execution.
	modeExecuteABI = `[{"inputs":[{"internalType":"bytes32","name":"mode","type":"bytes32"},{"internalType":"bytes","name":"executionCalldata","type":"bytes"}],"name":"execute","outputs":[],"stateMutability":"payable","type":"function"}]`
)

var (
	simpleExecute abi.ABI
	modeExecute   abi.ABI
)

func init() {
	var err error
	if simpleExecute, err = abi.JSON(strings.NewReader(simpleExecuteABI)); err != nil {
		panic(fmt.Errorf("invalid simple execute ABI: %w", err))
	}
	if modeExecute, err = abi.JSON(strings.NewReader(modeExecuteABI)); err != nil {
		panic(fmt.Errorf("invalid mode execute ABI: %w", err))
	}
}

// PackExecute generates calldata for the simple-account generic dispatch:
// forward ethValue and calldata to targetAddress.
func PackExecute(targetAddress common.Address, ethValue *big.Int, calldata []byte) ([]byte, error) {
	return simpleExecute.Pack("execute", targetAddress, ethValue, calldata)
}

// PackModeExecute generates calldata for the modular-account dispatch with an
// explicit execution mode tag.
func PackModeExecute(mode [32]byte, executionCalldata []byte) ([]byte, error) {
	return modeExecute.Pack("execute", mode, executionCalldata)
}

// GetInitCode returns the EntryPoint-style init code for a simple account:
// factory address concatenated with the createAccount calldata.
func GetInitCode(factory *SimpleFactory, owner common.Address, salt *big.Int) (string, error) {
	calldata, err := factory.CreateAccountCalldata(owner, salt)
	if err != nil {
		return "", err
	}

	var data []byte
	data = append(data, factory.Address().Bytes()...)
	data = append(data, calldata...)
	return hexutil.Encode(data), nil
}
