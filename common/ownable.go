package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OwnerKey is a storage key of the contract administrator.
const OwnerKey = "o"

// InitOwner stores the initial contract administrator. It's supposed to be
// called once from _deploy.
func InitOwner(ctx storage.Context, owner interop.Hash160) {
	CheckAccount(owner)

	storage.Put(ctx, OwnerKey, owner)

	var none interop.Hash160
	runtime.Notify("OwnershipTransferred", none, owner)
}

// Owner returns current contract administrator or nil if administration was
// renounced.
func Owner(ctx storage.Context) interop.Hash160 {
	owner := storage.Get(ctx, OwnerKey)
	if owner == nil {
		return nil
	}

	return owner.(interop.Hash160)
}

// CheckOwner panics with ErrUnauthorized message if the contract has no
// administrator or the transaction is not witnessed by it. Returns current
// administrator otherwise.
func CheckOwner(ctx storage.Context) interop.Hash160 {
	owner := Owner(ctx)
	if owner == nil {
		panic(ErrUnauthorized)
	}

	CheckAccountWitness(owner)

	return owner
}

// TransferOwnership replaces current contract administrator with newOwner.
// The call must be witnessed by the current administrator.
func TransferOwnership(ctx storage.Context, newOwner interop.Hash160) {
	prev := CheckOwner(ctx)
	CheckAccount(newOwner)

	storage.Put(ctx, OwnerKey, newOwner)
	runtime.Notify("OwnershipTransferred", prev, newOwner)
}

// RenounceOwnership leaves the contract without an administrator. There is
// no way back: all administrator-only methods fail after that.
func RenounceOwnership(ctx storage.Context) {
	prev := CheckOwner(ctx)

	storage.Delete(ctx, OwnerKey)

	var none interop.Hash160
	runtime.Notify("OwnershipTransferred", prev, none)
}
