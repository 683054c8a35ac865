// Package nep11recv is a contract accepting NEP-11 tokens. It remembers the
// last payment and counts all of them.
package nep11recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Payment describes received NEP-11 token.
type Payment struct {
	Token   interop.Hash160
	From    interop.Hash160
	TokenID []byte
	Data    any
}

const (
	lastKey  = "l"
	countKey = "c"
)

func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	if amount != 1 {
		panic("wrong amount")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, lastKey, std.Serialize(Payment{
		Token:   runtime.GetCallingScriptHash(),
		From:    from,
		TokenID: tokenID,
		Data:    data,
	}))

	var cnt int
	if v := storage.Get(ctx, countKey); v != nil {
		cnt = v.(int)
	}
	storage.Put(ctx, countKey, cnt+1)
}

// Last returns the last received payment.
func Last() Payment {
	val := storage.Get(storage.GetReadOnlyContext(), lastKey)
	if val == nil {
		return Payment{}
	}
	return std.Deserialize(val.([]byte)).(Payment)
}

// Count returns the number of received payments.
func Count() int {
	val := storage.Get(storage.GetReadOnlyContext(), countKey)
	if val == nil {
		return 0
	}
	return val.(int)
}
