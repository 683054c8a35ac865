// Package scoring contains RPC wrappers for Scoring contract.
package scoring

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// UserScore is a contract-specific scoring.Score type used by its methods.
type UserScore struct {
	QuizCompletions           *big.Int
	HasSubscribedToNewsletter bool
	HasBookedCall             bool
}

// ScoreUpdatedEvent represents "ScoreUpdated" event emitted by the contract.
type ScoreUpdatedEvent struct {
	User  util.Uint160
	Score *UserScore
}

// OwnershipTransferredEvent represents "OwnershipTransferred" event emitted by the contract.
// Zero PreviousOwner means contract deployment, zero NewOwner means renunciation.
type OwnershipTransferredEvent struct {
	PreviousOwner util.Uint160
	NewOwner      util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetUserScore invokes `getUserScore` method of contract.
func (c *ContractReader) GetUserScore(user util.Uint160) (*UserScore, error) {
	return itemToUserScore(unwrap.Item(c.invoker.Call(c.hash, "getUserScore", user)))
}

// Owner invokes `owner` method of contract. ErrNoOwner is returned if the
// contract administration was renounced.
func (c *ContractReader) Owner() (util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "owner"))
	if err != nil {
		return util.Uint160{}, err
	}
	return itemToOptionalUint160(item, ErrNoOwner)
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SubmitQuizAttestation creates a transaction invoking `submitQuizAttestation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitQuizAttestation(user util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitQuizAttestation", user)
}

// SubmitQuizAttestationTransaction creates a transaction invoking `submitQuizAttestation` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitQuizAttestationTransaction(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitQuizAttestation", user)
}

// SubmitQuizAttestationUnsigned creates a transaction invoking `submitQuizAttestation` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitQuizAttestationUnsigned(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitQuizAttestation", nil, user)
}

// UpdateNewsletterSubscription creates a transaction invoking `updateNewsletterSubscription` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateNewsletterSubscription(user util.Uint160, subscribed bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateNewsletterSubscription", user, subscribed)
}

// UpdateNewsletterSubscriptionTransaction creates a transaction invoking `updateNewsletterSubscription` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateNewsletterSubscriptionTransaction(user util.Uint160, subscribed bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateNewsletterSubscription", user, subscribed)
}

// UpdateNewsletterSubscriptionUnsigned creates a transaction invoking `updateNewsletterSubscription` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateNewsletterSubscriptionUnsigned(user util.Uint160, subscribed bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateNewsletterSubscription", nil, user, subscribed)
}

// UpdateCallBooking creates a transaction invoking `updateCallBooking` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateCallBooking(user util.Uint160, booked bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateCallBooking", user, booked)
}

// UpdateCallBookingTransaction creates a transaction invoking `updateCallBooking` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateCallBookingTransaction(user util.Uint160, booked bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateCallBooking", user, booked)
}

// UpdateCallBookingUnsigned creates a transaction invoking `updateCallBooking` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateCallBookingUnsigned(user util.Uint160, booked bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateCallBooking", nil, user, booked)
}

// TransferOwnership creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferOwnership(newOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferOwnership", newOwner)
}

// TransferOwnershipTransaction creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferOwnershipTransaction(newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferOwnership", newOwner)
}

// TransferOwnershipUnsigned creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferOwnershipUnsigned(newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferOwnership", nil, newOwner)
}

// RenounceOwnership creates a transaction invoking `renounceOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RenounceOwnership() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "renounceOwnership")
}

// RenounceOwnershipTransaction creates a transaction invoking `renounceOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RenounceOwnershipTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "renounceOwnership")
}

// RenounceOwnershipUnsigned creates a transaction invoking `renounceOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RenounceOwnershipUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "renounceOwnership", nil)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToUserScore converts stack item into *UserScore.
func itemToUserScore(item stackitem.Item, err error) (*UserScore, error) {
	if err != nil {
		return nil, err
	}
	var res = new(UserScore)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of UserScore from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
// Both Struct (method result) and Array (event payload) are accepted.
func (res *UserScore) FromStackItem(item stackitem.Item) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.QuizCompletions, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field QuizCompletions: %w", err)
	}

	index++
	res.HasSubscribedToNewsletter, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field HasSubscribedToNewsletter: %w", err)
	}

	index++
	res.HasBookedCall, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field HasBookedCall: %w", err)
	}

	return nil
}

// ScoreUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ScoreUpdated" name from the provided [result.ApplicationLog].
func ScoreUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ScoreUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ScoreUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ScoreUpdated" {
				continue
			}
			event := new(ScoreUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ScoreUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ScoreUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *ScoreUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.User, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	index++
	e.Score, err = itemToUserScore(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	return nil
}

// OwnershipTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnershipTransferred" name from the provided [result.ApplicationLog].
func OwnershipTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnershipTransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OwnershipTransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OwnershipTransferred" {
				continue
			}
			event := new(OwnershipTransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OwnershipTransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OwnershipTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *OwnershipTransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.PreviousOwner, err = itemToOptionalUint160(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field PreviousOwner: %w", err)
	}

	index++
	e.NewOwner, err = itemToOptionalUint160(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field NewOwner: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

// itemToOptionalUint160 returns zero Uint160 and nullErr for Null item.
func itemToOptionalUint160(item stackitem.Item, nullErr error) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nullErr
	}
	return itemToUint160(item)
}
