package tests

import (
	"encoding/json"
	"path"
	"testing"

	"github.com/minigate/contracts/common"
	"github.com/minigate/contracts/rpc/scoring"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const scoringPath = "../contracts/scoring"

func deployScoringContract(t *testing.T, e *neotest.Executor, admin any) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, scoringPath,
		path.Join(scoringPath, "config.yml"))

	var data any
	if admin != nil {
		data = []any{admin}
	}

	e.DeployContract(t, c, data)
	return c.Hash
}

// newScoringInvoker deploys Scoring contract administered by the committee.
func newScoringInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployScoringContract(t, e, nil)
	return e.CommitteeInvoker(h)
}

type testScore struct {
	quizzes    int64
	newsletter bool
	call       bool
}

func getUserScore(t *testing.T, c *neotest.ContractInvoker, user util.Uint160) testScore {
	s, err := c.TestInvoke(t, "getUserScore", user)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	var res scoring.UserScore
	require.NoError(t, res.FromStackItem(s.Pop().Item()))

	return testScore{
		quizzes:    res.QuizCompletions.Int64(),
		newsletter: res.HasSubscribedToNewsletter,
		call:       res.HasBookedCall,
	}
}

// checkScoreUpdated checks that the transaction emitted exactly one
// ScoreUpdated notification and that it matches the stored record.
func checkScoreUpdated(t *testing.T, c *neotest.ContractInvoker, h util.Uint256, user util.Uint160, expected testScore) {
	evs, err := scoring.ScoreUpdatedEventsFromApplicationLog(appLogOf(t, c.Executor, h))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, user, evs[0].User)
	require.Equal(t, expected, testScore{
		quizzes:    evs[0].Score.QuizCompletions.Int64(),
		newsletter: evs[0].Score.HasSubscribedToNewsletter,
		call:       evs[0].Score.HasBookedCall,
	})
	require.Equal(t, expected, getUserScore(t, c, user))
}

func TestScoring_Deploy(t *testing.T) {
	t.Run("sender is administrator by default", func(t *testing.T) {
		c := newScoringInvoker(t)

		require.Equal(t, c.CommitteeHash, contractOwner(t, c))
		c.Invoke(t, common.Version, "version")
	})
	t.Run("explicit administrator", func(t *testing.T) {
		e := newExecutor(t)
		admin := e.NewAccount(t)
		h := deployScoringContract(t, e, admin.ScriptHash())

		c := e.CommitteeInvoker(h)
		require.Equal(t, admin.ScriptHash(), contractOwner(t, c))

		user := e.NewAccount(t).ScriptHash()
		c.InvokeFail(t, common.ErrUnauthorized, "updateNewsletterSubscription", user, true)
		c.WithSigners(admin).Invoke(t, stackitem.Null{}, "updateNewsletterSubscription", user, true)
	})
	t.Run("invalid administrator", func(t *testing.T) {
		e := newExecutor(t)
		c := neotest.CompileFile(t, e.CommitteeHash, scoringPath,
			path.Join(scoringPath, "config.yml"))

		e.DeployContractCheckFAULT(t, c, []any{util.Uint160{}}, common.ErrInvalidTarget)
		e.DeployContractCheckFAULT(t, c, []any{[]byte{1, 2, 3}}, common.ErrInvalidTarget)
	})
}

func TestScoring_Lifecycle(t *testing.T) {
	c := newScoringInvoker(t)
	userX := c.NewAccount(t)
	userY := c.NewAccount(t)
	x := userX.ScriptHash()

	// Unknown account has zero score.
	require.Equal(t, testScore{}, getUserScore(t, c, x))

	// Two attestations.
	cX := c.WithSigners(userX)
	h := cX.Invoke(t, stackitem.Null{}, "submitQuizAttestation", x)
	checkScoreUpdated(t, c, h, x, testScore{quizzes: 1})
	h = cX.Invoke(t, stackitem.Null{}, "submitQuizAttestation", x)
	checkScoreUpdated(t, c, h, x, testScore{quizzes: 2})

	// Newsletter subscription by the administrator.
	h = c.Invoke(t, stackitem.Null{}, "updateNewsletterSubscription", x, true)
	checkScoreUpdated(t, c, h, x, testScore{quizzes: 2, newsletter: true})

	// Non-administrator can't book a call.
	c.WithSigners(userY).InvokeFail(t, common.ErrUnauthorized, "updateCallBooking", x, true)
	require.Equal(t, testScore{quizzes: 2, newsletter: true}, getUserScore(t, c, x))

	// Renounced administration is terminal.
	c.Invoke(t, stackitem.Null{}, "renounceOwnership")
	c.InvokeFail(t, common.ErrUnauthorized, "updateNewsletterSubscription", x, false)
	require.Equal(t, testScore{quizzes: 2, newsletter: true}, getUserScore(t, c, x))
}

func TestScoring_SubmitQuizAttestation(t *testing.T) {
	c := newScoringInvoker(t)
	user := c.NewAccount(t)
	other := c.NewAccount(t)
	cUser := c.WithSigners(user)

	t.Run("witness required", func(t *testing.T) {
		c.WithSigners(other).InvokeFail(t, common.ErrUnauthorized, "submitQuizAttestation", user.ScriptHash())
		c.InvokeFail(t, common.ErrUnauthorized, "submitQuizAttestation", user.ScriptHash())
		require.Equal(t, testScore{}, getUserScore(t, c, user.ScriptHash()))
	})
	t.Run("invalid target", func(t *testing.T) {
		cUser.InvokeFail(t, common.ErrInvalidTarget, "submitQuizAttestation", util.Uint160{})
		cUser.InvokeFail(t, common.ErrInvalidTarget, "submitQuizAttestation", []byte{1, 2, 3})
	})
	t.Run("unbounded counter", func(t *testing.T) {
		const n = 10
		for i := 1; i <= n; i++ {
			h := cUser.Invoke(t, stackitem.Null{}, "submitQuizAttestation", user.ScriptHash())
			checkScoreUpdated(t, c, h, user.ScriptHash(), testScore{quizzes: int64(i)})
		}
	})
	t.Run("same block", func(t *testing.T) {
		tx1 := cUser.PrepareInvoke(t, "submitQuizAttestation", user.ScriptHash())
		tx2 := cUser.PrepareInvoke(t, "submitQuizAttestation", user.ScriptHash())
		c.AddNewBlock(t, tx1, tx2)
		c.CheckHalt(t, tx1.Hash(), stackitem.Null{})
		c.CheckHalt(t, tx2.Hash(), stackitem.Null{})

		require.Equal(t, testScore{quizzes: 12}, getUserScore(t, c, user.ScriptHash()))
	})
	t.Run("isolation", func(t *testing.T) {
		require.Equal(t, testScore{}, getUserScore(t, c, other.ScriptHash()))
	})
}

func TestScoring_Flags(t *testing.T) {
	for _, tc := range []struct {
		method string
		score  func(bool) testScore
	}{
		{"updateNewsletterSubscription", func(v bool) testScore { return testScore{newsletter: v} }},
		{"updateCallBooking", func(v bool) testScore { return testScore{call: v} }},
	} {
		t.Run(tc.method, func(t *testing.T) {
			c := newScoringInvoker(t)
			user := c.NewAccount(t).ScriptHash()
			other := c.NewAccount(t)

			t.Run("administrator only", func(t *testing.T) {
				c.WithSigners(other).InvokeFail(t, common.ErrUnauthorized, tc.method, user, true)
				c.WithSigners(other).InvokeFail(t, common.ErrUnauthorized, tc.method, other.ScriptHash(), true)
				require.Equal(t, testScore{}, getUserScore(t, c, user))
			})
			t.Run("invalid target", func(t *testing.T) {
				c.InvokeFail(t, common.ErrInvalidTarget, tc.method, util.Uint160{}, true)
				c.InvokeFail(t, common.ErrInvalidTarget, tc.method, []byte{1}, true)
			})
			t.Run("unauthorized before invalid target", func(t *testing.T) {
				c.WithSigners(other).InvokeFail(t, common.ErrUnauthorized, tc.method, util.Uint160{}, true)
			})

			h := c.Invoke(t, stackitem.Null{}, tc.method, user, true)
			checkScoreUpdated(t, c, h, user, tc.score(true))

			t.Run("idempotent", func(t *testing.T) {
				h := c.Invoke(t, stackitem.Null{}, tc.method, user, true)
				checkScoreUpdated(t, c, h, user, tc.score(true))
			})

			h = c.Invoke(t, stackitem.Null{}, tc.method, user, false)
			checkScoreUpdated(t, c, h, user, tc.score(false))

			require.Equal(t, testScore{}, getUserScore(t, c, other.ScriptHash()))
		})
	}
}

func TestScoring_FieldsIndependent(t *testing.T) {
	c := newScoringInvoker(t)
	acc := c.NewAccount(t)
	user := acc.ScriptHash()

	c.Invoke(t, stackitem.Null{}, "updateCallBooking", user, true)
	c.WithSigners(acc).Invoke(t, stackitem.Null{}, "submitQuizAttestation", user)
	h := c.Invoke(t, stackitem.Null{}, "updateNewsletterSubscription", user, true)
	checkScoreUpdated(t, c, h, user, testScore{quizzes: 1, newsletter: true, call: true})

	h = c.Invoke(t, stackitem.Null{}, "updateCallBooking", user, false)
	checkScoreUpdated(t, c, h, user, testScore{quizzes: 1, newsletter: true})
}

func TestScoring_GetUserScore(t *testing.T) {
	c := newScoringInvoker(t)

	c.InvokeFail(t, common.ErrInvalidTarget, "getUserScore", util.Uint160{})
	c.InvokeFail(t, common.ErrInvalidTarget, "getUserScore", []byte{1, 2, 3})

	// Contracts have scores as any other account.
	require.Equal(t, testScore{}, getUserScore(t, c, c.Hash))
}

func TestScoring_TransferOwnership(t *testing.T) {
	c := newScoringInvoker(t)
	newAdmin := c.NewAccount(t)
	user := c.NewAccount(t).ScriptHash()
	cNew := c.WithSigners(newAdmin)

	cNew.InvokeFail(t, common.ErrUnauthorized, "transferOwnership", newAdmin.ScriptHash())
	c.InvokeFail(t, common.ErrInvalidTarget, "transferOwnership", util.Uint160{})
	c.InvokeFail(t, common.ErrInvalidTarget, "transferOwnership", []byte{1, 2, 3})

	h := c.Invoke(t, stackitem.Null{}, "transferOwnership", newAdmin.ScriptHash())
	evs, err := scoring.OwnershipTransferredEventsFromApplicationLog(appLogOf(t, c.Executor, h))
	require.NoError(t, err)
	require.Equal(t, []*scoring.OwnershipTransferredEvent{{
		PreviousOwner: c.CommitteeHash,
		NewOwner:      newAdmin.ScriptHash(),
	}}, evs)

	require.Equal(t, newAdmin.ScriptHash(), contractOwner(t, c))

	c.InvokeFail(t, common.ErrUnauthorized, "updateNewsletterSubscription", user, true)
	c.InvokeFail(t, common.ErrUnauthorized, "transferOwnership", c.CommitteeHash)
	cNew.Invoke(t, stackitem.Null{}, "updateNewsletterSubscription", user, true)

	t.Run("to itself", func(t *testing.T) {
		cNew.Invoke(t, stackitem.Null{}, "transferOwnership", newAdmin.ScriptHash())
		cNew.Invoke(t, stackitem.Null{}, "updateCallBooking", user, true)
	})
}

func TestScoring_RenounceOwnership(t *testing.T) {
	c := newScoringInvoker(t)
	acc := c.NewAccount(t)
	user := acc.ScriptHash()

	c.WithSigners(acc).InvokeFail(t, common.ErrUnauthorized, "renounceOwnership")

	h := c.Invoke(t, stackitem.Null{}, "renounceOwnership")
	evs, err := scoring.OwnershipTransferredEventsFromApplicationLog(appLogOf(t, c.Executor, h))
	require.NoError(t, err)
	require.Equal(t, []*scoring.OwnershipTransferredEvent{{PreviousOwner: c.CommitteeHash}}, evs)

	requireNoOwner(t, c)

	for _, signer := range []neotest.Signer{c.Committee, acc} {
		ci := c.WithSigners(signer)
		ci.InvokeFail(t, common.ErrUnauthorized, "updateNewsletterSubscription", user, true)
		ci.InvokeFail(t, common.ErrUnauthorized, "updateCallBooking", user, true)
		ci.InvokeFail(t, common.ErrUnauthorized, "transferOwnership", user)
		ci.InvokeFail(t, common.ErrUnauthorized, "renounceOwnership")
	}

	// Self-service attestations survive renunciation.
	h = c.WithSigners(acc).Invoke(t, stackitem.Null{}, "submitQuizAttestation", user)
	checkScoreUpdated(t, c, h, user, testScore{quizzes: 1})
}

func TestScoring_Update(t *testing.T) {
	e := newExecutor(t)
	h := deployScoringContract(t, e, nil)
	c := e.CommitteeInvoker(h)

	ctr := neotest.CompileFile(t, e.CommitteeHash, scoringPath,
		path.Join(scoringPath, "config.yml"))
	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)
	rawNef, err := ctr.NEF.Bytes()
	require.NoError(t, err)

	c.WithSigners(e.NewAccount(t)).InvokeFail(t, common.ErrUnauthorized, "update", rawNef, rawManifest, nil)
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNef, rawManifest, nil)
}
