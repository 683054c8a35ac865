package scoring

import (
	"errors"

	"github.com/minigate/contracts/contracts/accessconst"
)

const (
	// ErrorUnauthorized is a FAULT exception message of calls not witnessed
	// by the required account (administrator or score owner).
	ErrorUnauthorized = accessconst.ErrUnauthorized

	// ErrorInvalidTarget is a FAULT exception message of calls with malformed
	// or zero account.
	ErrorInvalidTarget = accessconst.ErrInvalidTarget
)

// ErrNoOwner is returned by [ContractReader.Owner] when the contract
// administration was renounced.
var ErrNoOwner = errors.New("contract has no owner")
