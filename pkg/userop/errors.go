package userop

import (
	"errors"
	"fmt"
)

// Builder validation failures are local and non-retriable: the caller has to
// supply the missing datum before the operation can be finalized.

// MissingFieldError reports the first unset field, in declaration order, found
// during Finalize.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("user operation field %q is not set", e.Field)
}

// Account-state errors, reserved for deployment tracking on top of the
// counterfactual address flow.
var (
	ErrAddressNotSet   = errors.New("smart contract wallet address has not been set")
	ErrAlreadyDeployed = errors.New("smart contract wallet has been deployed for the given counterfactual address")
	ErrNotDeployed     = errors.New("smart contract wallet has not been deployed for the given address")

	// ErrSaltNotSet is returned when a counterfactual address is requested
	// from a builder that was constructed without a salt.
	ErrSaltNotSet = errors.New("salt is required to derive the counterfactual address")
)
