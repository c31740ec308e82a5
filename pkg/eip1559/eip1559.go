// Package eip1559 samples the fee market for user operation fee fields.
package eip1559

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/samber/lo"
)

// ErrNoFeeSample is returned when the sampled block carries no dynamic-fee
// transactions. Averaging over zero samples must fail loudly instead of
// returning (0, 0): a zero max fee is an unsubmittable operation.
var ErrNoFeeSample = errors.New("no dynamic fee transactions in sampled block")

// AverageFees returns the arithmetic mean of maxFeePerGas and
// maxPriorityFeePerGas across the transactions that carry both fee caps:
// dynamic-fee (type 2) transactions and every later type, blob transactions
// included. Legacy and access-list transactions only have a gas price and are
// skipped.
func AverageFees(txs types.Transactions) (*big.Int, *big.Int, error) {
	sampled := lo.Filter(txs, func(tx *types.Transaction, _ int) bool {
		return tx.Type() >= types.DynamicFeeTxType
	})
	if len(sampled) == 0 {
		return nil, nil, ErrNoFeeSample
	}

	totalFee := new(big.Int)
	totalTip := new(big.Int)
	for _, tx := range sampled {
		totalFee.Add(totalFee, tx.GasFeeCap())
		totalTip.Add(totalTip, tx.GasTipCap())
	}

	count := big.NewInt(int64(len(sampled)))
	return totalFee.Div(totalFee, count), totalTip.Div(totalTip, count), nil
}

// SampleFeeMarket reads the latest block with its transactions and averages
// the observed fee caps. No caching: every call reflects the chain head at
// call time.
func SampleFeeMarket(ctx context.Context, client *ethclient.Client) (*big.Int, *big.Int, error) {
	block, err := client.BlockByNumber(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch latest block: %w", err)
	}
	return AverageFees(block.Transactions())
}
