package scoring

import (
	"github.com/minigate/contracts/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Score is a participation record of a single account.
type Score struct {
	QuizCompletions           int
	HasSubscribedToNewsletter bool
	HasBookedCall             bool
}

const scorePrefix = 's'

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	common.InitOwner(ctx, common.DeployOwner(data))

	runtime.Log("scoring contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract administrator.
func Update(script []byte, manifest []byte, data any) {
	common.UpdateContract(script, manifest, data)
	runtime.Log("scoring contract updated")
}

// SubmitQuizAttestation increments the number of completed quizzes of the
// user. The transaction must be witnessed by the user. Quiz results are not
// verified here, neither is the number of attestations limited: every
// successful call counts.
//
// Produces ScoreUpdated notification.
func SubmitQuizAttestation(user interop.Hash160) {
	common.CheckAccount(user)
	common.CheckAccountWitness(user)

	ctx := storage.GetContext()

	s := getScore(ctx, user)
	s.QuizCompletions = s.QuizCompletions + 1

	putScore(ctx, user, s)
}

// UpdateNewsletterSubscription sets newsletter subscription flag of the user.
// It can be invoked only by the contract administrator. Setting the current
// value is not an error.
//
// Produces ScoreUpdated notification.
func UpdateNewsletterSubscription(user interop.Hash160, subscribed bool) {
	ctx := storage.GetContext()

	common.CheckOwner(ctx)
	common.CheckAccount(user)

	s := getScore(ctx, user)
	s.HasSubscribedToNewsletter = subscribed

	putScore(ctx, user, s)
}

// UpdateCallBooking sets call booking flag of the user. It can be invoked
// only by the contract administrator. Setting the current value is not an
// error.
//
// Produces ScoreUpdated notification.
func UpdateCallBooking(user interop.Hash160, booked bool) {
	ctx := storage.GetContext()

	common.CheckOwner(ctx)
	common.CheckAccount(user)

	s := getScore(ctx, user)
	s.HasBookedCall = booked

	putScore(ctx, user, s)
}

// GetUserScore returns the score of the user. Users that have never been
// scored get a zero Score.
func GetUserScore(user interop.Hash160) Score {
	common.CheckAccount(user)

	return getScore(storage.GetReadOnlyContext(), user)
}

// Owner returns the contract administrator or null if the contract has none.
func Owner() interop.Hash160 {
	return common.Owner(storage.GetReadOnlyContext())
}

// TransferOwnership passes administration of the contract to newOwner. It
// can be invoked only by the current administrator.
//
// Produces OwnershipTransferred notification.
func TransferOwnership(newOwner interop.Hash160) {
	common.TransferOwnership(storage.GetContext(), newOwner)
}

// RenounceOwnership leaves the contract without an administrator forever.
// Newsletter and call booking flags can't be changed after that.
//
// Produces OwnershipTransferred notification with null new owner.
func RenounceOwnership() {
	common.RenounceOwnership(storage.GetContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getScore(ctx storage.Context, user interop.Hash160) Score {
	data := storage.Get(ctx, scoreKey(user))
	if data != nil {
		return std.Deserialize(data.([]byte)).(Score)
	}

	return Score{}
}

func putScore(ctx storage.Context, user interop.Hash160, s Score) {
	common.SetSerialized(ctx, scoreKey(user), s)

	runtime.Notify("ScoreUpdated", user,
		[]any{s.QuizCompletions, s.HasSubscribedToNewsletter, s.HasBookedCall})
}

func scoreKey(user interop.Hash160) []byte {
	return append([]byte{scorePrefix}, user...)
}
