package aa

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	// EntrypointAddress is the canonical EntryPoint v0.7 deployment, identical
	// on mainnet and Sepolia.
	EntrypointAddress = common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")
)

func SetEntrypointAddress(address common.Address) {
	EntrypointAddress = address
}
