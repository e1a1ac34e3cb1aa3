// Package ledger holds the append-only audit trail of status changes.
// Every aggregate records one Entry per transition; entries are never
// updated or deleted once persisted.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/pkg/errs"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// Entry is a single status change of one aggregate.
type Entry struct {
	id          kernel.UUID
	lifecycle   lifecycle.Lifecycle
	aggregateID kernel.UUID
	orderID     kernel.UUID
	from        string
	to          string
	actor       string
	remarks     string
	at          time.Time

	isConstructed bool
}

// NewEntry records a transition of the aggregate identified by aggregateID.
// The move must be legal in the lifecycle's graph, so the ledger can never
// contain a transition the workflows would have rejected.
func NewEntry(
	l lifecycle.Lifecycle,
	aggregateID, orderID kernel.UUID,
	from, to fmt.Stringer,
	actor, remarks string,
	at time.Time,
) (Entry, error) {
	if !lifecycle.IsAllowed(l, from.String(), to.String()) {
		return Entry{}, errs.NewInvalidTransitionError(l.String(), from.String(), to.String())
	}
	return RestoreEntry(kernel.NewUUID(), l, aggregateID, orderID, from.String(), to.String(), actor, remarks, at)
}

// RestoreEntry rebuilds a persisted entry.
func RestoreEntry(
	id kernel.UUID,
	l lifecycle.Lifecycle,
	aggregateID, orderID kernel.UUID,
	from, to string,
	actor, remarks string,
	at time.Time,
) (Entry, error) {
	var lifecycleErr error
	if l == lifecycle.UnknownLifecycle {
		lifecycleErr = errs.NewValueIsRequiredError("lifecycle")
	}
	var actorErr error
	if strings.TrimSpace(actor) == "" {
		actorErr = errs.NewValueIsRequiredError("actor")
	}
	var atErr error
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("at")
	}
	if err := errors.Join(id.Validate(), aggregateID.Validate(), orderID.Validate(), lifecycleErr, actorErr, atErr); err != nil {
		return Entry{}, err
	}

	return Entry{
		id:            id,
		lifecycle:     l,
		aggregateID:   aggregateID,
		orderID:       orderID,
		from:          from,
		to:            to,
		actor:         actor,
		remarks:       remarks,
		at:            at.UTC(),
		isConstructed: true,
	}, nil
}

func (e Entry) Validate() error {
	if !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e Entry) ID() kernel.UUID                { return e.id }
func (e Entry) Lifecycle() lifecycle.Lifecycle { return e.lifecycle }
func (e Entry) AggregateID() kernel.UUID       { return e.aggregateID }
func (e Entry) OrderID() kernel.UUID           { return e.orderID }
func (e Entry) From() string                   { return e.from }
func (e Entry) To() string                     { return e.to }
func (e Entry) Actor() string                  { return e.actor }
func (e Entry) Remarks() string                { return e.remarks }
func (e Entry) At() time.Time                  { return e.at }

// Journal buffers the entries an aggregate recorded since it was loaded.
// Persistence drains it inside the unit of work that saves the aggregate.
type Journal struct {
	pending []Entry
}

func (j *Journal) Record(e Entry) {
	j.pending = append(j.pending, e)
}

func (j *Journal) Pending() []Entry {
	return slices.Clone(j.pending)
}

func (j *Journal) Clear() {
	j.pending = nil
}

// Recorder is implemented by aggregates that record status changes.
type Recorder interface {
	PendingEntries() []Entry
	ClearPendingEntries()
}
