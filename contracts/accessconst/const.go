// Package accessconst contains exception messages of the access checks shared
// by all contracts. They're used both on-chain and by RPC bindings to
// recognize failed invocations.
package accessconst

const (
	// ErrUnauthorized is thrown when the method must be witnessed by a
	// particular account (contract administrator or the account a record
	// belongs to) but was not. Contract without an administrator fails every
	// administrator-only call with this error.
	ErrUnauthorized = "unauthorized account"

	// ErrInvalidTarget is thrown when the passed account is not a valid
	// 20-byte script hash or is the reserved zero account.
	ErrInvalidTarget = "invalid target account"
)
