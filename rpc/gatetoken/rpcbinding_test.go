package gatetoken

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}
func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}
func (t *testInv) TerminateSession(uuid.UUID) error {
	return nil
}

func TestOwnsGatingToken(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})
	acc := util.Uint160{3, 2, 1}

	ti.err = errors.New("bad")
	_, err := r.OwnsGatingToken(acc)
	require.Error(t, err)

	ti.err = nil
	ti.res = &result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.Make(0)}}
	ok, err := r.OwnsGatingToken(acc)
	require.NoError(t, err)
	require.False(t, ok)

	ti.res = &result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.Make(2)}}
	ok, err = r.OwnsGatingToken(acc)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOwner(t *testing.T) {
	ti := &testInv{res: &result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.Null{}}}}
	r := NewReader(ti, util.Uint160{1, 2, 3})

	_, err := r.Owner()
	require.ErrorIs(t, err, ErrNoOwner)

	h := util.Uint160{7, 7, 7}
	ti.res = &result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.Make(h.BytesBE())}}
	res, err := r.Owner()
	require.NoError(t, err)
	require.Equal(t, h, res)
}

func TestTransferEventsFromApplicationLog(t *testing.T) {
	to := util.Uint160{5, 5, 5}
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{{
				Name: "Transfer",
				Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Null{},
					stackitem.Make(to.BytesBE()),
					stackitem.Make(1),
					stackitem.Make([]byte("0")),
				}),
			}},
		}},
	}

	events, err := TransferEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*TransferEvent{{
		To:      to,
		Amount:  big.NewInt(1),
		TokenId: []byte("0"),
	}}, events)
}
