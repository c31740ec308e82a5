package userop

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// UserOperationPartial mirrors UserOperation with every field optional. It is
// the builder-time accumulator and also the payload for gas estimation, where
// bundlers accept operations with gas fields still unset.
type UserOperationPartial struct {
	Sender                        *common.Address
	Nonce                         *big.Int
	Factory                       *common.Address
	FactoryData                   []byte
	CallData                      []byte
	CallGasLimit                  *big.Int
	VerificationGasLimit          *big.Int
	PreVerificationGas            *big.Int
	MaxFeePerGas                  *big.Int
	MaxPriorityFeePerGas          *big.Int
	Paymaster                     *string
	PaymasterVerificationGasLimit *big.Int
	PaymasterPostOpGasLimit       *big.Int
	PaymasterData                 []byte
	Signature                     []byte
}

// ToUserOperation is the permissive projection: every absent field collapses
// to its zero value (zero address, zero integer, empty bytes, paymaster "0x").
// Finalize-style validation is the builder's job, not this conversion's.
func (p *UserOperationPartial) ToUserOperation() UserOperation {
	op := UserOperation{
		Nonce:                         orZero(p.Nonce),
		FactoryData:                   emptyIfNil(p.FactoryData),
		CallData:                      emptyIfNil(p.CallData),
		CallGasLimit:                  orZero(p.CallGasLimit),
		VerificationGasLimit:          orZero(p.VerificationGasLimit),
		PreVerificationGas:            orZero(p.PreVerificationGas),
		MaxFeePerGas:                  orZero(p.MaxFeePerGas),
		MaxPriorityFeePerGas:          orZero(p.MaxPriorityFeePerGas),
		Paymaster:                     NoPaymaster,
		PaymasterVerificationGasLimit: orZero(p.PaymasterVerificationGasLimit),
		PaymasterPostOpGasLimit:       orZero(p.PaymasterPostOpGasLimit),
		PaymasterData:                 emptyIfNil(p.PaymasterData),
		Signature:                     emptyIfNil(p.Signature),
	}
	if p.Sender != nil {
		op.Sender = *p.Sender
	}
	if p.Factory != nil {
		op.Factory = *p.Factory
	}
	if p.Paymaster != nil {
		op.Paymaster = *p.Paymaster
	}
	return op
}

// Clone deep-copies the partial so two builders never share field state.
func (p *UserOperationPartial) Clone() *UserOperationPartial {
	c := &UserOperationPartial{
		Nonce:                         copyBig(p.Nonce),
		FactoryData:                   copyBytes(p.FactoryData),
		CallData:                      copyBytes(p.CallData),
		CallGasLimit:                  copyBig(p.CallGasLimit),
		VerificationGasLimit:          copyBig(p.VerificationGasLimit),
		PreVerificationGas:            copyBig(p.PreVerificationGas),
		MaxFeePerGas:                  copyBig(p.MaxFeePerGas),
		MaxPriorityFeePerGas:          copyBig(p.MaxPriorityFeePerGas),
		PaymasterVerificationGasLimit: copyBig(p.PaymasterVerificationGasLimit),
		PaymasterPostOpGasLimit:       copyBig(p.PaymasterPostOpGasLimit),
		PaymasterData:                 copyBytes(p.PaymasterData),
		Signature:                     copyBytes(p.Signature),
	}
	if p.Sender != nil {
		addr := *p.Sender
		c.Sender = &addr
	}
	if p.Factory != nil {
		addr := *p.Factory
		c.Factory = &addr
	}
	if p.Paymaster != nil {
		pm := *p.Paymaster
		c.Paymaster = &pm
	}
	return c
}

// wirePartial serializes only the fields that have been set; bundlers treat
// absent optional fields as unset rather than zero.
type wirePartial struct {
	Sender                        *common.Address `json:"sender,omitempty"`
	Nonce                         *hexutil.Big    `json:"nonce,omitempty"`
	Factory                       *common.Address `json:"factory,omitempty"`
	FactoryData                   hexutil.Bytes   `json:"factoryData,omitempty"`
	CallData                      hexutil.Bytes   `json:"callData,omitempty"`
	CallGasLimit                  *hexutil.Big    `json:"callGasLimit,omitempty"`
	VerificationGasLimit          *hexutil.Big    `json:"verificationGasLimit,omitempty"`
	PreVerificationGas            *hexutil.Big    `json:"preVerificationGas,omitempty"`
	MaxFeePerGas                  *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas          *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Paymaster                     *string         `json:"paymaster,omitempty"`
	PaymasterVerificationGasLimit *hexutil.Big    `json:"paymasterVerificationGasLimit,omitempty"`
	PaymasterPostOpGasLimit       *hexutil.Big    `json:"paymasterPostOpGasLimit,omitempty"`
	PaymasterData                 hexutil.Bytes   `json:"paymasterData,omitempty"`
	Signature                     hexutil.Bytes   `json:"signature,omitempty"`
}

func (p UserOperationPartial) MarshalJSON() ([]byte, error) {
	return json.Marshal(wirePartial{
		Sender:                        p.Sender,
		Nonce:                         (*hexutil.Big)(p.Nonce),
		Factory:                       p.Factory,
		FactoryData:                   p.FactoryData,
		CallData:                      p.CallData,
		CallGasLimit:                  (*hexutil.Big)(p.CallGasLimit),
		VerificationGasLimit:          (*hexutil.Big)(p.VerificationGasLimit),
		PreVerificationGas:            (*hexutil.Big)(p.PreVerificationGas),
		MaxFeePerGas:                  (*hexutil.Big)(p.MaxFeePerGas),
		MaxPriorityFeePerGas:          (*hexutil.Big)(p.MaxPriorityFeePerGas),
		Paymaster:                     p.Paymaster,
		PaymasterVerificationGasLimit: (*hexutil.Big)(p.PaymasterVerificationGasLimit),
		PaymasterPostOpGasLimit:       (*hexutil.Big)(p.PaymasterPostOpGasLimit),
		PaymasterData:                 p.PaymasterData,
		Signature:                     p.Signature,
	})
}

func (p *UserOperationPartial) UnmarshalJSON(data []byte) error {
	var w wirePartial
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Sender = w.Sender
	p.Nonce = (*big.Int)(w.Nonce)
	p.Factory = w.Factory
	p.FactoryData = w.FactoryData
	p.CallData = w.CallData
	p.CallGasLimit = (*big.Int)(w.CallGasLimit)
	p.VerificationGasLimit = (*big.Int)(w.VerificationGasLimit)
	p.PreVerificationGas = (*big.Int)(w.PreVerificationGas)
	p.MaxFeePerGas = (*big.Int)(w.MaxFeePerGas)
	p.MaxPriorityFeePerGas = (*big.Int)(w.MaxPriorityFeePerGas)
	p.Paymaster = w.Paymaster
	p.PaymasterVerificationGasLimit = (*big.Int)(w.PaymasterVerificationGasLimit)
	p.PaymasterPostOpGasLimit = (*big.Int)(w.PaymasterPostOpGasLimit)
	p.PaymasterData = w.PaymasterData
	p.Signature = w.Signature
	return nil
}

func emptyIfNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func copyBig(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}
