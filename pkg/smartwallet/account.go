package smartwallet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/AvaProtocol/aa-sdk/core/chainio/aa"
)

// Account encodes calldata for a smart wallet's generic execution entry
// point. It is a value type: copying it is the clone operation, so registry
// values can be handed out without sharing mutable state.
type Account struct {
	kind Kind
}

func (a Account) Kind() Kind {
	return a.kind
}

// Execute produces the calldata that makes the account forward value wei and
// data to dest. Both supported account families expose the same
// execute(address,uint256,bytes) dispatch for single calls.
func (a Account) Execute(dest common.Address, value *big.Int, data []byte) ([]byte, error) {
	return aa.PackExecute(dest, value, data)
}

// Clone returns an independent copy. Accounts carry no pointers, so the
// structural copy is already deep; the method exists so callers cloning a
// builder do not need to know that.
func (a Account) Clone() Account {
	return a
}
