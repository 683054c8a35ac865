package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

func txSender() interop.Hash160 {
	return runtime.GetScriptContainer().Sender
}
