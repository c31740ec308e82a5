// Package userop holds the EntryPoint v0.7 UserOperation model, its
// builder-time partial counterpart, and the canonical packing/hash used
// for signing and relay-side identification.
package userop

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NoPaymaster is the wire sentinel for an absent paymaster. Bundlers expect
// the literal two-character string, not an empty value.
const NoPaymaster = "0x"

// UserOperation is the intent record submitted on behalf of a smart contract
// account. Field order matters: the canonical packing in hash.go encodes the
// fields in exactly this declaration order.
type UserOperation struct {
	Sender                        common.Address
	Nonce                         *big.Int
	Factory                       common.Address
	FactoryData                   []byte
	CallData                      []byte
	CallGasLimit                  *big.Int
	VerificationGasLimit          *big.Int
	PreVerificationGas            *big.Int
	MaxFeePerGas                  *big.Int
	MaxPriorityFeePerGas          *big.Int
	Paymaster                     string
	PaymasterVerificationGasLimit *big.Int
	PaymasterPostOpGasLimit       *big.Int
	PaymasterData                 []byte
	Signature                     []byte
}

// WithSignature returns a copy of the operation with the signature replaced.
// The hash is signature-independent, so signing never mutates the original.
func (op UserOperation) WithSignature(sig []byte) UserOperation {
	op.Signature = append([]byte(nil), sig...)
	return op
}

// wireUserOperation is the JSON-RPC encoding: camelCase field names,
// 0x-prefixed hex quantities and byte strings.
type wireUserOperation struct {
	Sender                        common.Address `json:"sender"`
	Nonce                         *hexutil.Big   `json:"nonce"`
	Factory                       common.Address `json:"factory"`
	FactoryData                   hexutil.Bytes  `json:"factoryData"`
	CallData                      hexutil.Bytes  `json:"callData"`
	CallGasLimit                  *hexutil.Big   `json:"callGasLimit"`
	VerificationGasLimit          *hexutil.Big   `json:"verificationGasLimit"`
	PreVerificationGas            *hexutil.Big   `json:"preVerificationGas"`
	MaxFeePerGas                  *hexutil.Big   `json:"maxFeePerGas"`
	MaxPriorityFeePerGas          *hexutil.Big   `json:"maxPriorityFeePerGas"`
	Paymaster                     string         `json:"paymaster"`
	PaymasterVerificationGasLimit *hexutil.Big   `json:"paymasterVerificationGasLimit"`
	PaymasterPostOpGasLimit       *hexutil.Big   `json:"paymasterPostOpGasLimit"`
	PaymasterData                 hexutil.Bytes  `json:"paymasterData"`
	Signature                     hexutil.Bytes  `json:"signature"`
}

func (op UserOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireUserOperation{
		Sender:                        op.Sender,
		Nonce:                         (*hexutil.Big)(orZero(op.Nonce)),
		Factory:                       op.Factory,
		FactoryData:                   op.FactoryData,
		CallData:                      op.CallData,
		CallGasLimit:                  (*hexutil.Big)(orZero(op.CallGasLimit)),
		VerificationGasLimit:          (*hexutil.Big)(orZero(op.VerificationGasLimit)),
		PreVerificationGas:            (*hexutil.Big)(orZero(op.PreVerificationGas)),
		MaxFeePerGas:                  (*hexutil.Big)(orZero(op.MaxFeePerGas)),
		MaxPriorityFeePerGas:          (*hexutil.Big)(orZero(op.MaxPriorityFeePerGas)),
		Paymaster:                     op.Paymaster,
		PaymasterVerificationGasLimit: (*hexutil.Big)(orZero(op.PaymasterVerificationGasLimit)),
		PaymasterPostOpGasLimit:       (*hexutil.Big)(orZero(op.PaymasterPostOpGasLimit)),
		PaymasterData:                 op.PaymasterData,
		Signature:                     op.Signature,
	})
}

func (op *UserOperation) UnmarshalJSON(data []byte) error {
	var w wireUserOperation
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	op.Sender = w.Sender
	op.Nonce = (*big.Int)(w.Nonce)
	op.Factory = w.Factory
	op.FactoryData = w.FactoryData
	op.CallData = w.CallData
	op.CallGasLimit = (*big.Int)(w.CallGasLimit)
	op.VerificationGasLimit = (*big.Int)(w.VerificationGasLimit)
	op.PreVerificationGas = (*big.Int)(w.PreVerificationGas)
	op.MaxFeePerGas = (*big.Int)(w.MaxFeePerGas)
	op.MaxPriorityFeePerGas = (*big.Int)(w.MaxPriorityFeePerGas)
	op.Paymaster = w.Paymaster
	op.PaymasterVerificationGasLimit = (*big.Int)(w.PaymasterVerificationGasLimit)
	op.PaymasterPostOpGasLimit = (*big.Int)(w.PaymasterPostOpGasLimit)
	op.PaymasterData = w.PaymasterData
	op.Signature = w.Signature
	return nil
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}
