package common

import (
	"github.com/minigate/contracts/contracts/accessconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

const (
	// ErrUnauthorized appears when the method must be witnessed by a
	// particular account but was not.
	ErrUnauthorized = accessconst.ErrUnauthorized
	// ErrInvalidTarget appears when the passed account is malformed.
	ErrInvalidTarget = accessconst.ErrInvalidTarget
)

// CheckAccountWitness checks witness of the passed account.
// It panics with ErrUnauthorized message on fail.
func CheckAccountWitness(acc interop.Hash160) {
	if !runtime.CheckWitness(acc) {
		panic(ErrUnauthorized)
	}
}

// CheckAccount panics with ErrInvalidTarget message if acc is not a valid
// account.
func CheckAccount(acc interop.Hash160) {
	if !IsValidAccount(acc) {
		panic(ErrInvalidTarget)
	}
}

// IsValidAccount returns true if acc is a 20-byte script hash which is not
// the zero one.
func IsValidAccount(acc interop.Hash160) bool {
	if len(acc) != interop.Hash160Len {
		return false
	}

	for i := 0; i < len(acc); i++ {
		if acc[i] != 0 {
			return true
		}
	}

	return false
}
