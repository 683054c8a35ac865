package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// appLogOf returns application log of the accepted transaction in the form
// RPC bindings decode notifications from.
func appLogOf(t *testing.T, e *neotest.Executor, h util.Uint256) *result.ApplicationLog {
	aer := e.GetTxExecResult(t, h)
	return &result.ApplicationLog{
		Container:  h,
		Executions: []state.Execution{aer.Execution},
	}
}

// contractOwner returns the administrator of the contract. Stored owner can
// come back either as ByteString or as Buffer, so it's compared by bytes.
func contractOwner(t *testing.T, c *neotest.ContractInvoker) util.Uint160 {
	s, err := c.TestInvoke(t, "owner")
	require.NoError(t, err)

	b, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)

	owner, err := util.Uint160DecodeBytesBE(b)
	require.NoError(t, err)
	return owner
}

func requireNoOwner(t *testing.T, c *neotest.ContractInvoker) {
	s, err := c.TestInvoke(t, "owner")
	require.NoError(t, err)
	require.Equal(t, stackitem.Null{}, s.Pop().Item())
}
