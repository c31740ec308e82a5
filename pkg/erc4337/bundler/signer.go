package bundler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Signer signs a 32-byte user operation hash. Implementations decide the
// scheme; the client only promises to hand over the raw digest, never a
// transformed or prefixed payload.
type Signer interface {
	Address() common.Address
	ChainID() *big.Int
	Sign(digest []byte) ([]byte, error)
}
