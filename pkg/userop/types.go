package userop

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// GasEstimation is the result of eth_estimateUserOperationGas for a v0.7
// operation, including the paymaster gas limits.
type GasEstimation struct {
	PreVerificationGas            *big.Int
	VerificationGasLimit          *big.Int
	CallGasLimit                  *big.Int
	PaymasterVerificationGasLimit *big.Int
	PaymasterPostOpGasLimit       *big.Int
}

type wireGasEstimation struct {
	PreVerificationGas            *hexutil.Big `json:"preVerificationGas"`
	VerificationGasLimit          *hexutil.Big `json:"verificationGasLimit"`
	CallGasLimit                  *hexutil.Big `json:"callGasLimit"`
	PaymasterVerificationGasLimit *hexutil.Big `json:"paymasterVerificationGasLimit"`
	PaymasterPostOpGasLimit       *hexutil.Big `json:"paymasterPostOpGasLimit"`
}

func (g *GasEstimation) UnmarshalJSON(data []byte) error {
	var w wireGasEstimation
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	g.PreVerificationGas = orZero((*big.Int)(w.PreVerificationGas))
	g.VerificationGasLimit = orZero((*big.Int)(w.VerificationGasLimit))
	g.CallGasLimit = orZero((*big.Int)(w.CallGasLimit))
	g.PaymasterVerificationGasLimit = orZero((*big.Int)(w.PaymasterVerificationGasLimit))
	g.PaymasterPostOpGasLimit = orZero((*big.Int)(w.PaymasterPostOpGasLimit))
	return nil
}

// Receipt is the bundler's record of an included operation. Paymaster is a
// pointer: unsponsored operations come back with a null paymaster.
type Receipt struct {
	UserOpHash    common.Hash     `json:"userOpHash"`
	Sender        common.Address  `json:"sender"`
	Nonce         *hexutil.Big    `json:"nonce"`
	Paymaster     *common.Address `json:"paymaster"`
	ActualGasCost *hexutil.Big   `json:"actualGasCost"`
	ActualGasUsed *hexutil.Big   `json:"actualGasUsed"`
	Success       bool           `json:"success"`
	Reason        string         `json:"reason"`
	Logs          []*types.Log   `json:"logs"`
	TxReceipt     types.Receipt  `json:"receipt"`
}

// ByHash is the bundler's answer to eth_getUserOperationByHash: the operation
// plus its inclusion coordinates.
type ByHash struct {
	UserOperation   UserOperation  `json:"userOperation"`
	EntryPoint      common.Address `json:"entryPoint"`
	TransactionHash common.Hash    `json:"transactionHash"`
	BlockHash       common.Hash    `json:"blockHash"`
	BlockNumber     hexutil.Uint64 `json:"blockNumber"`
}
