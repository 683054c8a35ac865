package gatetoken

import (
	"github.com/minigate/contracts/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// Prefixes used for contract data storage.
const (
	// prefixTotalSupply contains total supply of minted tokens.
	prefixTotalSupply byte = 0x00
	// prefixBalance contains map from the owner to their balance.
	prefixBalance byte = 0x01
	// prefixAccountToken contains map from (owner + token ID) to token ID.
	prefixAccountToken byte = 0x02
	// prefixToken contains map from token ID to TokenState.
	prefixToken byte = 0x03
	// prefixNextID contains the ID of the next minted token.
	prefixNextID byte = 0x04
	// prefixName contains collection name.
	prefixName byte = 0x10
	// prefixSymbol contains token symbol.
	prefixSymbol byte = 0x11
)

const (
	defaultName   = "Mini App Pass"
	defaultSymbol = "MAP"

	// ErrTokenNotFound is thrown when the requested token doesn't exist
	// (was never minted or was burnt).
	ErrTokenNotFound = "token not found"
)

// TokenState is a type minted tokens are saved as.
type TokenState struct {
	Owner interop.Hash160
	Name  string
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	name, symbol := defaultName, defaultSymbol
	if data != nil {
		args := data.([]any)
		if len(args) > 1 && args[1] != nil {
			name = args[1].(string)
		}
		if len(args) > 2 && args[2] != nil {
			symbol = args[2].(string)
		}
	}

	ctx := storage.GetContext()
	storage.Put(ctx, []byte{prefixName}, name)
	storage.Put(ctx, []byte{prefixSymbol}, symbol)
	storage.Put(ctx, []byte{prefixTotalSupply}, 0)
	storage.Put(ctx, []byte{prefixNextID}, 0)

	common.InitOwner(ctx, common.DeployOwner(data))

	runtime.Log("gate token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract administrator.
func Update(script []byte, manifest []byte, data any) {
	common.UpdateContract(script, manifest, data)
	runtime.Log("gate token contract updated")
}

// Symbol returns token symbol.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{prefixSymbol}).(string)
}

// Decimals returns token decimals, tokens are not divisible.
func Decimals() int {
	return 0
}

// TotalSupply returns the number of existing tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{prefixTotalSupply})
}

// BalanceOf returns the number of tokens owned by the specified owner.
func BalanceOf(owner interop.Hash160) int {
	common.CheckAccount(owner)

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{prefixBalance}, owner...))
}

// OwnerOf returns the owner of the specified token.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getTokenState(ctx, tokenID).Owner
}

// Properties returns the name of the specified token.
func Properties(tokenID []byte) map[string]any {
	ctx := storage.GetReadOnlyContext()
	ts := getTokenState(ctx, tokenID)
	return map[string]any{
		"name": ts.Name,
	}
}

// Tokens returns iterator over IDs of all existing tokens.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixToken}, storage.KeysOnly|storage.RemovePrefix)
}

// TokensOf returns iterator over IDs of tokens owned by the specified owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	common.CheckAccount(owner)

	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{prefixAccountToken}, owner...), storage.ValuesOnly)
}

// Transfer transfers the token to a new owner. The transaction must be
// witnessed by the current token owner, false is returned otherwise.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	common.CheckAccount(to)

	ctx := storage.GetContext()
	ts := getTokenState(ctx, tokenID)

	from := ts.Owner
	if !runtime.CheckWitness(from) {
		return false
	}

	if !util.Equals(from, to) {
		ts.Owner = to
		common.SetSerialized(ctx, tokenKey(tokenID), ts)

		updateBalance(ctx, tokenID, from, -1)
		updateBalance(ctx, tokenID, to, +1)
	}

	postTransfer(from, to, tokenID, data)
	return true
}

// Mint creates a new token owned by the specified account and returns its
// ID. Token IDs are decimal numbers starting from 0. It can be invoked only
// by the contract administrator.
func Mint(to interop.Hash160) []byte {
	ctx := storage.GetContext()

	common.CheckOwner(ctx)
	common.CheckAccount(to)

	id := common.GetInt(ctx, []byte{prefixNextID})
	storage.Put(ctx, []byte{prefixNextID}, id+1)

	tokenID := []byte(std.Itoa(id, 10))
	name := storage.Get(ctx, []byte{prefixName}).(string)

	common.SetSerialized(ctx, tokenKey(tokenID), TokenState{
		Owner: to,
		Name:  name + " #" + std.Itoa(id, 10),
	})

	updateBalance(ctx, tokenID, to, +1)
	updateTotalSupply(ctx, +1)

	var none interop.Hash160
	postTransfer(none, to, tokenID, nil)

	return tokenID
}

// Burn destroys the token. The transaction must be witnessed by the token
// owner. Burnt IDs are never reused.
func Burn(tokenID []byte) {
	ctx := storage.GetContext()
	ts := getTokenState(ctx, tokenID)

	common.CheckAccountWitness(ts.Owner)

	storage.Delete(ctx, tokenKey(tokenID))
	updateBalance(ctx, tokenID, ts.Owner, -1)
	updateTotalSupply(ctx, -1)

	var none interop.Hash160
	runtime.Notify("Transfer", ts.Owner, none, 1, tokenID)
}

// Owner returns the contract administrator or null if the contract has none.
func Owner() interop.Hash160 {
	return common.Owner(storage.GetReadOnlyContext())
}

// TransferOwnership passes administration of the contract to newOwner. It
// can be invoked only by the current administrator.
func TransferOwnership(newOwner interop.Hash160) {
	common.TransferOwnership(storage.GetContext(), newOwner)
}

// RenounceOwnership leaves the contract without an administrator, no more
// tokens can be minted after that.
func RenounceOwnership() {
	common.RenounceOwnership(storage.GetContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func tokenKey(tokenID []byte) []byte {
	return append([]byte{prefixToken}, tokenID...)
}

func getTokenState(ctx storage.Context, tokenID []byte) TokenState {
	data := storage.Get(ctx, tokenKey(tokenID))
	if data == nil {
		panic(ErrTokenNotFound)
	}

	return std.Deserialize(data.([]byte)).(TokenState)
}

func updateBalance(ctx storage.Context, tokenID []byte, acc interop.Hash160, diff int) {
	balanceKey := append([]byte{prefixBalance}, acc...)
	balance := common.GetInt(ctx, balanceKey) + diff
	if balance == 0 {
		storage.Delete(ctx, balanceKey)
	} else {
		storage.Put(ctx, balanceKey, balance)
	}

	accountTokenKey := append(append([]byte{prefixAccountToken}, acc...), tokenID...)
	if diff < 0 {
		storage.Delete(ctx, accountTokenKey)
	} else {
		storage.Put(ctx, accountTokenKey, tokenID)
	}
}

func updateTotalSupply(ctx storage.Context, diff int) {
	key := []byte{prefixTotalSupply}
	storage.Put(ctx, key, common.GetInt(ctx, key)+diff)
}

// postTransfer sends Transfer notification to the network and calls
// onNEP11Payment method of the receiver if it's a contract.
func postTransfer(from, to interop.Hash160, tokenID []byte, data any) {
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, data)
	}
}
