// Package relay turns off-chain intents into administrator-signed Scoring
// contract calls.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minigate/contracts/rpc/scoring"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

var (
	// ErrUnauthorized is returned when the relay account is not the current
	// Scoring administrator (including renounced administration).
	ErrUnauthorized = errors.New("relay account is not authorized")

	// ErrInvalidTarget is returned for malformed or null target identities.
	ErrInvalidTarget = errors.New("invalid target account")
)

// Ledger is a subset of the Scoring contract binding used by Relay.
// [scoring.Contract] implements it.
type Ledger interface {
	UpdateNewsletterSubscription(user util.Uint160, subscribed bool) (util.Uint256, uint32, error)
	UpdateCallBooking(user util.Uint160, booked bool) (util.Uint256, uint32, error)
	GetUserScore(user util.Uint160) (*scoring.UserScore, error)
}

// Waiter awaits transaction inclusion. [actor.Actor] implements it.
type Waiter interface {
	// WaitAny waits until one of the specified transactions is accepted or
	// ValidUntilBlock is exceeded.
	WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (*state.AppExecResult, error)
}

// Prm groups Relay parameters.
type Prm struct {
	// Writes submitted calls into the log. Optional: no-op logger is used when nil.
	Logger *zap.Logger

	// Scoring contract signed by the administrator account.
	Ledger Ledger

	// Transaction awaiter, usually the same actor as the one behind Ledger.
	Waiter Waiter
}

// Relay submits owner-only Scoring mutations. Relay never retries: neither a
// failed submission nor a failed await is repeated, callers decide on retries
// themselves.
type Relay struct {
	log    *zap.Logger
	ledger Ledger
	waiter Waiter
}

// FlagRequest is an intent to set one owner-managed flag of the target.
type FlagRequest struct {
	// Target identity: Neo address or hex-encoded LE script hash (0x prefix is allowed).
	Target string
	Value  bool
}

// Receipt describes the accepted Scoring mutation.
type Receipt struct {
	TxHash util.Uint256
	User   util.Uint160
	// Post-mutation record taken from the ScoreUpdated notification.
	Score scoring.UserScore
}

// New constructs Relay from the given parameters.
func New(prm Prm) (*Relay, error) {
	switch {
	case prm.Ledger == nil:
		return nil, errors.New("missing Scoring contract")
	case prm.Waiter == nil:
		return nil, errors.New("missing transaction waiter")
	}
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	return &Relay{
		log:    prm.Logger,
		ledger: prm.Ledger,
		waiter: prm.Waiter,
	}, nil
}

// ParseAccount decodes target identity given as Neo address or hex-encoded
// LE script hash. Null (zero) identity is rejected with ErrInvalidTarget.
func ParseAccount(s string) (util.Uint160, error) {
	s = strings.TrimSpace(s)

	u, err := address.StringToUint160(s)
	if err != nil {
		u, err = util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return util.Uint160{}, fmt.Errorf("%w: %q is neither address nor script hash", ErrInvalidTarget, s)
		}
	}
	if u.Equals(util.Uint160{}) {
		return util.Uint160{}, fmt.Errorf("%w: null account", ErrInvalidTarget)
	}
	return u, nil
}

// SetNewsletterSubscription sets newsletter subscription flag of the request
// target and waits for the transaction to be accepted.
func (r *Relay) SetNewsletterSubscription(ctx context.Context, req FlagRequest) (*Receipt, error) {
	return r.setFlag(ctx, "newsletter subscription", req, r.ledger.UpdateNewsletterSubscription)
}

// SetCallBooked sets call-booked flag of the request target and waits for the
// transaction to be accepted.
func (r *Relay) SetCallBooked(ctx context.Context, req FlagRequest) (*Receipt, error) {
	return r.setFlag(ctx, "call booking", req, r.ledger.UpdateCallBooking)
}

// Score reads current score of the target. Intended for reconciliation of
// optimistic client-side updates.
func (r *Relay) Score(ctx context.Context, target string) (*scoring.UserScore, error) {
	user, err := ParseAccount(target)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.ledger.GetUserScore(user)
	if err != nil {
		return nil, fmt.Errorf("get score of %s: %w", address.Uint160ToString(user), mapFault(err))
	}
	return s, nil
}

func (r *Relay) setFlag(ctx context.Context, name string, req FlagRequest,
	send func(util.Uint160, bool) (util.Uint256, uint32, error)) (*Receipt, error) {
	user, err := ParseAccount(req.Target)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	txHash, vub, err := send(user, req.Value)
	if err != nil {
		return nil, fmt.Errorf("send %s transaction: %w", name, mapFault(err))
	}

	l := r.log.With(zap.String("flag", name), zap.Stringer("user", user), zap.Stringer("tx", txHash))
	l.Info("transaction sent, waiting for acceptance", zap.Bool("value", req.Value), zap.Uint32("vub", vub))

	res, err := r.waiter.WaitAny(ctx, vub, txHash)
	if err != nil {
		return nil, fmt.Errorf("wait for %s transaction %s: %w", name, txHash.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		l.Warn("transaction failed", zap.String("exception", res.FaultException))
		return nil, fmt.Errorf("%s transaction %s: %w", name, txHash.StringLE(),
			mapFault(errors.New(res.FaultException)))
	}

	rcpt, err := receiptFromExecution(txHash, user, res)
	if err != nil {
		return nil, err
	}

	l.Info("transaction accepted",
		zap.Stringer("quiz completions", rcpt.Score.QuizCompletions),
		zap.Bool("newsletter", rcpt.Score.HasSubscribedToNewsletter),
		zap.Bool("call booked", rcpt.Score.HasBookedCall))

	return rcpt, nil
}

func receiptFromExecution(txHash util.Uint256, user util.Uint160, res *state.AppExecResult) (*Receipt, error) {
	evs, err := scoring.ScoreUpdatedEventsFromApplicationLog(&result.ApplicationLog{
		Container:  txHash,
		Executions: []state.Execution{res.Execution},
	})
	if err != nil {
		return nil, fmt.Errorf("decode notifications of transaction %s: %w", txHash.StringLE(), err)
	}
	if len(evs) != 1 {
		return nil, fmt.Errorf("transaction %s: expected exactly one ScoreUpdated notification, got %d", txHash.StringLE(), len(evs))
	}
	if !evs[0].User.Equals(user) {
		return nil, fmt.Errorf("transaction %s: notification for unexpected account %s", txHash.StringLE(), evs[0].User.StringLE())
	}
	return &Receipt{
		TxHash: txHash,
		User:   user,
		Score:  *evs[0].Score,
	}, nil
}

// mapFault converts Scoring contract exceptions into package errors.
func mapFault(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, scoring.ErrorUnauthorized):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case strings.Contains(msg, scoring.ErrorInvalidTarget):
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	default:
		return err
	}
}
