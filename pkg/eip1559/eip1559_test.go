package eip1559

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dynamicTx(feeCap, tipCap int64) *types.Transaction {
	return types.NewTx(&types.DynamicFeeTx{
		GasFeeCap: big.NewInt(feeCap),
		GasTipCap: big.NewInt(tipCap),
	})
}

func legacyTx(gasPrice int64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{GasPrice: big.NewInt(gasPrice)})
}

func blobTx(feeCap, tipCap uint64) *types.Transaction {
	return types.NewTx(&types.BlobTx{
		GasFeeCap:  uint256.NewInt(feeCap),
		GasTipCap:  uint256.NewInt(tipCap),
		BlobFeeCap: uint256.NewInt(1),
	})
}

func TestAverageFees(t *testing.T) {
	txs := types.Transactions{
		dynamicTx(10, 1),
		dynamicTx(20, 2),
		dynamicTx(30, 3),
	}

	maxFee, maxTip, err := AverageFees(txs)
	require.NoError(t, err)
	assert.Equal(t, int64(20), maxFee.Int64())
	assert.Equal(t, int64(2), maxTip.Int64())
}

func TestAverageFeesSkipsLegacyTransactions(t *testing.T) {
	txs := types.Transactions{
		legacyTx(1000),
		dynamicTx(10, 1),
		legacyTx(9999),
		dynamicTx(30, 3),
	}

	maxFee, maxTip, err := AverageFees(txs)
	require.NoError(t, err)
	assert.Equal(t, int64(20), maxFee.Int64())
	assert.Equal(t, int64(2), maxTip.Int64())
}

func TestAverageFeesIncludesBlobTransactions(t *testing.T) {
	// Blob (type 3) transactions carry both fee caps and count toward the
	// sample like any dynamic-fee transaction.
	txs := types.Transactions{
		dynamicTx(10, 1),
		blobTx(30, 3),
	}

	maxFee, maxTip, err := AverageFees(txs)
	require.NoError(t, err)
	assert.Equal(t, int64(20), maxFee.Int64())
	assert.Equal(t, int64(2), maxTip.Int64())
}

func TestAverageFeesNoSample(t *testing.T) {
	_, _, err := AverageFees(types.Transactions{})
	assert.ErrorIs(t, err, ErrNoFeeSample)

	_, _, err = AverageFees(types.Transactions{legacyTx(1000)})
	assert.ErrorIs(t, err, ErrNoFeeSample)
}

func TestAverageFeesTruncatesTowardZero(t *testing.T) {
	txs := types.Transactions{
		dynamicTx(10, 1),
		dynamicTx(11, 2),
	}

	maxFee, maxTip, err := AverageFees(txs)
	require.NoError(t, err)
	assert.Equal(t, int64(10), maxFee.Int64())
	assert.Equal(t, int64(1), maxTip.Int64())
}
