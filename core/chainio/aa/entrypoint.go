package aa

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Hand-written slice of the EntryPoint ABI: the SDK only reads the per-account
// nonce mapping; everything else goes through the bundler RPC.
const entryPointABI = `[{"inputs":[{"internalType":"address","name":"sender","type":"address"},{"internalType":"uint192","name":"key","type":"uint192"}],"name":"getNonce","outputs":[{"internalType":"uint256","name":"nonce","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// EntryPoint is a read-only binding to the EntryPoint contract.
type EntryPoint struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewEntryPoint(address common.Address, backend bind.ContractBackend) (*EntryPoint, error) {
	parsed, err := abi.JSON(strings.NewReader(entryPointABI))
	if err != nil {
		return nil, fmt.Errorf("invalid entrypoint ABI: %w", err)
	}
	return &EntryPoint{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (ep *EntryPoint) Address() common.Address {
	return ep.address
}

// GetNonce reads nonceSequenceNumber[sender][key] from the entry point. The
// key is a uint192; callers are responsible for fitting their namespace into
// that width.
func (ep *EntryPoint) GetNonce(opts *bind.CallOpts, sender common.Address, key *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := ep.contract.Call(opts, &out, "getNonce", sender, key); err != nil {
		return nil, fmt.Errorf("entrypoint getNonce: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
