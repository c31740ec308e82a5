package bundler

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/AvaProtocol/aa-sdk/core/chainio/aa"
	"github.com/AvaProtocol/aa-sdk/pkg/eip1559"
	"github.com/AvaProtocol/aa-sdk/pkg/userop"
)

// PlaceholderGas pre-fills gas and fee fields before estimation so bundlers
// that refuse zero values still simulate the operation. The magnitude is a
// tuning knob, not protocol; estimation overwrites it before submission.
var PlaceholderGas = big.NewInt(1_000_000_000)

// PackTransferExecution encodes a native transfer as an ERC-7579 single-call
// execution envelope: a zero 32-byte mode tag, then dest (20 bytes), the wei
// value as a 32-byte big-endian word, and a zero byte for empty calldata.
func PackTransferExecution(dest common.Address, value *big.Int) []byte {
	var mode [32]byte
	var word [32]byte
	if value != nil {
		value.FillBytes(word[:])
	}

	buf := make([]byte, 0, 85)
	buf = append(buf, mode[:]...)
	buf = append(buf, dest.Bytes()...)
	buf = append(buf, word[:]...)
	buf = append(buf, 0x00)
	return buf
}

// TransferCalldata wraps the transfer envelope in the modular account's
// execute(bytes32,bytes) dispatch, splitting the mode tag back out as the
// first argument.
func TransferCalldata(dest common.Address, value *big.Int) ([]byte, error) {
	envelope := PackTransferExecution(dest, value)

	var mode [32]byte
	copy(mode[:], envelope[:32])
	return aa.PackModeExecute(mode, envelope[32:])
}

// BuildTransfer assembles an unsigned native-transfer operation for the
// client's sender: live nonce, transfer calldata, then placeholder gas and
// fee values replaced by the bundler's estimation and a fee-market sample.
// The result still needs a signature before submission.
func (bc *BundlerClient) BuildTransfer(ctx context.Context, dest common.Address, value *big.Int) (*userop.UserOperationPartial, error) {
	nonce, err := bc.GetNonce(ctx)
	if err != nil {
		return nil, err
	}

	calldata, err := TransferCalldata(dest, value)
	if err != nil {
		return nil, fmt.Errorf("pack transfer calldata: %w", err)
	}

	sender := bc.sender
	op := &userop.UserOperationPartial{
		Sender:               &sender,
		Nonce:                nonce,
		CallData:             calldata,
		CallGasLimit:         new(big.Int).Set(PlaceholderGas),
		VerificationGasLimit: new(big.Int).Set(PlaceholderGas),
		PreVerificationGas:   new(big.Int).Set(PlaceholderGas),
		MaxFeePerGas:         new(big.Int).Set(PlaceholderGas),
		MaxPriorityFeePerGas: new(big.Int).Set(PlaceholderGas),
		Signature:            []byte{},
	}

	estimation, err := bc.EstimateUserOperationGas(ctx, op)
	if err != nil {
		return nil, err
	}
	op.CallGasLimit = estimation.CallGasLimit
	op.VerificationGasLimit = estimation.VerificationGasLimit
	op.PreVerificationGas = estimation.PreVerificationGas

	maxFee, maxPriorityFee, err := eip1559.SampleFeeMarket(ctx, bc.conn)
	if err != nil {
		return nil, err
	}
	op.MaxFeePerGas = maxFee
	op.MaxPriorityFeePerGas = maxPriorityFee

	return op, nil
}

// SignUserOperation hashes the operation against the client's entry point and
// chain id and attaches the signer's signature. The input is not mutated.
func (bc *BundlerClient) SignUserOperation(op userop.UserOperation, signer Signer) (userop.UserOperation, error) {
	chainID := bc.chainID
	if chainID == nil {
		chainID = signer.ChainID()
	}

	hash, err := op.Hash(bc.entryPointAddress, chainID)
	if err != nil {
		return userop.UserOperation{}, err
	}

	sig, err := signer.Sign(hash.Bytes())
	if err != nil {
		return userop.UserOperation{}, fmt.Errorf("sign user operation: %w", err)
	}
	return op.WithSignature(sig), nil
}

// FromTransaction lifts the fields a user operation shares with an ordinary
// transaction. Contract-creation transactions have no target and are
// rejected.
func FromTransaction(tx *types.Transaction) (dest common.Address, value *big.Int, calldata []byte, err error) {
	if tx.To() == nil {
		return common.Address{}, nil, nil, fmt.Errorf("transaction has no recipient")
	}
	return *tx.To(), tx.Value(), tx.Data(), nil
}

// NewRandomBuilder starts a builder for the client's wallet kind with a fresh
// random salt, for deriving throwaway counterfactual wallets.
func (bc *BundlerClient) NewRandomBuilder(signerAddress common.Address) (*userop.Builder, error) {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	salt := binary.BigEndian.Uint64(raw[:])
	return userop.NewBuilder(bc.conn, bc.registry, signerAddress, bc.kind, nil, &salt)
}
