package userop

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// The unsigned packing encodes every field except the signature, in struct
// declaration order, with callData replaced by its keccak256 digest. The
// digest is carried as a dynamic `bytes` value (length-prefixed 32 bytes)
// rather than a bytes32, because that is how the deployed verifiers encode
// it; changing the slot type changes every hash.
var (
	addressTy, _ = abi.NewType("address", "", nil)
	uint256Ty, _ = abi.NewType("uint256", "", nil)
	bytesTy, _   = abi.NewType("bytes", "", nil)
	stringTy, _  = abi.NewType("string", "", nil)

	unsignedArguments = abi.Arguments{
		{Name: "sender", Type: addressTy},
		{Name: "nonce", Type: uint256Ty},
		{Name: "factory", Type: addressTy},
		{Name: "factoryData", Type: bytesTy},
		{Name: "callData", Type: bytesTy},
		{Name: "callGasLimit", Type: uint256Ty},
		{Name: "verificationGasLimit", Type: uint256Ty},
		{Name: "preVerificationGas", Type: uint256Ty},
		{Name: "maxFeePerGas", Type: uint256Ty},
		{Name: "maxPriorityFeePerGas", Type: uint256Ty},
		{Name: "paymaster", Type: stringTy},
		{Name: "paymasterVerificationGasLimit", Type: uint256Ty},
		{Name: "paymasterPostOpGasLimit", Type: uint256Ty},
		{Name: "paymasterData", Type: bytesTy},
	}
)

// PackWithoutSignature produces the canonical inner encoding used by Hash.
// Empty callData still contributes keccak256("") to the packing.
func (op *UserOperation) PackWithoutSignature() ([]byte, error) {
	packed, err := unsignedArguments.Pack(
		op.Sender,
		orZero(op.Nonce),
		op.Factory,
		emptyIfNil(op.FactoryData),
		crypto.Keccak256(op.CallData),
		orZero(op.CallGasLimit),
		orZero(op.VerificationGasLimit),
		orZero(op.PreVerificationGas),
		orZero(op.MaxFeePerGas),
		orZero(op.MaxPriorityFeePerGas),
		op.Paymaster,
		orZero(op.PaymasterVerificationGasLimit),
		orZero(op.PaymasterPostOpGasLimit),
		emptyIfNil(op.PaymasterData),
	)
	if err != nil {
		return nil, fmt.Errorf("pack unsigned user operation: %w", err)
	}
	return packed, nil
}

// Hash is the two-stage commitment used both as the signing payload and as
// the relay-facing identifier:
//
//	keccak256(keccak256(packWithoutSignature) || pad32(entryPoint) || pad32(chainID))
//
// The outer stage binds the operation to a specific entry point deployment
// and chain, so the same operation cannot be replayed across networks.
func (op *UserOperation) Hash(entryPoint common.Address, chainID *big.Int) (common.Hash, error) {
	packed, err := op.PackWithoutSignature()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(
		crypto.Keccak256(packed),
		common.LeftPadBytes(entryPoint.Bytes(), 32),
		common.LeftPadBytes(orZero(chainID).Bytes(), 32),
	), nil
}
