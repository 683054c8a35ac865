package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// UpdateContract replaces code and manifest of the calling contract. It can
// be invoked only by the contract administrator. Current version is appended
// to data so that _deploy of the new code can check it.
func UpdateContract(script []byte, manifest []byte, data any) {
	CheckOwner(storage.GetReadOnlyContext())

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, AppendVersion(data))
}

// DeployOwner returns the administrator passed as the first element of the
// deployment data or, if there is none, the sender of the deploying
// transaction.
func DeployOwner(data any) interop.Hash160 {
	if data != nil {
		args := data.([]any)
		if len(args) > 0 && args[0] != nil {
			return args[0].(interop.Hash160)
		}
	}

	return txSender()
}
