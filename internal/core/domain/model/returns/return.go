// Package returns provides the Return aggregate: a request to send back some
// or all of the items of a delivered order.
//
// Returns follow the same request lifecycle as cancellations. Items also carry
// inspection remarks, which are kept when the item set is edited unless the
// new item provides its own.
package returns

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/pkg/errs"
)

var ErrReturnIsNotConstructed = errors.New("Return must be created via NewReturn constructor")

const entity = "return"

type Return struct {
	id        kernel.UUID
	orderID   kernel.UUID
	reasonID  kernel.UUID
	status    Status
	isPartial bool
	remarks   string
	items     []*Item

	requestedBy string
	requestedAt time.Time

	processedBy      string
	processedAt      *time.Time
	decisionRemarks  string
	refundableAmount kernel.Money

	updatedAt time.Time
	deletedAt *time.Time
	version   int64
	journal   ledger.Journal

	isConstructed bool
}

// NewReturn creates a Pending return. Item eligibility against the
// order is checked by the caller; here only the shape of the item set is validated.
func NewReturn(
	id, orderID, reasonID kernel.UUID,
	items []*Item,
	isPartial bool,
	requestedBy, remarks string,
	now time.Time,
) (*Return, error) {
	var requesterErr error
	if strings.TrimSpace(requestedBy) == "" {
		requesterErr = errs.NewValueIsRequiredError("requestedBy")
	}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		reasonID.Validate(),
		validateItems(items),
		requesterErr,
	); err != nil {
		return nil, err
	}

	return &Return{
		id:            id,
		orderID:       orderID,
		reasonID:      reasonID,
		status:        Pending,
		isPartial:     isPartial,
		remarks:       remarks,
		items:         slices.Clone(items),
		requestedBy:   requestedBy,
		requestedAt:   now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

// Snapshot is the persisted state of a return.
type Snapshot struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	ReasonID         kernel.UUID
	Status           Status
	IsPartial        bool
	Remarks          string
	Items            []*Item
	RequestedBy      string
	RequestedAt      time.Time
	ProcessedBy      string
	ProcessedAt      *time.Time
	DecisionRemarks  string
	RefundableAmount kernel.Money
	UpdatedAt        time.Time
	DeletedAt        *time.Time
	Version          int64
}

func RestoreReturn(s Snapshot) (*Return, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.ReasonID.Validate(),
		s.Status.Validate(),
		validateItems(s.Items),
	); err != nil {
		return nil, err
	}

	return &Return{
		id:               s.ID,
		orderID:          s.OrderID,
		reasonID:         s.ReasonID,
		status:           s.Status,
		isPartial:        s.IsPartial,
		remarks:          s.Remarks,
		items:            slices.Clone(s.Items),
		requestedBy:      s.RequestedBy,
		requestedAt:      s.RequestedAt.UTC(),
		processedBy:      s.ProcessedBy,
		processedAt:      s.ProcessedAt,
		decisionRemarks:  s.DecisionRemarks,
		refundableAmount: s.RefundableAmount,
		updatedAt:        s.UpdatedAt.UTC(),
		deletedAt:        s.DeletedAt,
		version:          s.Version,
		isConstructed:    true,
	}, nil
}

func (r *Return) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReturnIsNotConstructed
	}
	return nil
}

func (r *Return) ID() kernel.UUID                { return r.id }
func (r *Return) OrderID() kernel.UUID           { return r.orderID }
func (r *Return) ReasonID() kernel.UUID          { return r.reasonID }
func (r *Return) Status() Status                 { return r.status }
func (r *Return) IsPartial() bool                { return r.isPartial }
func (r *Return) Remarks() string                { return r.remarks }
func (r *Return) RequestedBy() string            { return r.requestedBy }
func (r *Return) RequestedAt() time.Time         { return r.requestedAt }
func (r *Return) ProcessedBy() string            { return r.processedBy }
func (r *Return) ProcessedAt() *time.Time        { return r.processedAt }
func (r *Return) DecisionRemarks() string        { return r.decisionRemarks }
func (r *Return) RefundableAmount() kernel.Money { return r.refundableAmount }
func (r *Return) UpdatedAt() time.Time           { return r.updatedAt }
func (r *Return) DeletedAt() *time.Time          { return r.deletedAt }
func (r *Return) Version() int64                 { return r.version }
func (r *Return) Items() []*Item                 { return slices.Clone(r.items) }
func (r *Return) IsDeleted() bool                { return r.deletedAt != nil }

// IsActive reports whether the request still awaits a decision.
func (r *Return) IsActive() bool {
	return r.status == Pending && !r.IsDeleted()
}

// Update replaces reason, remarks and the item set while the request is Pending.
// Items are merged by order item: an existing item keeps its id and takes the
// new quantity, new order items are inserted and missing ones are dropped.
func (r *Return) Update(reasonID kernel.UUID, items []*Item, isPartial bool, remarks string, now time.Time) error {
	if err := r.requirePending("update"); err != nil {
		return err
	}
	if err := errors.Join(reasonID.Validate(), validateItems(items)); err != nil {
		return err
	}

	merged := make([]*Item, 0, len(items))
	for _, incoming := range items {
		if existing := r.itemFor(incoming.orderItemID); existing != nil {
			existing.quantity = incoming.quantity
			if incoming.remarks != "" {
				existing.remarks = incoming.remarks
			}
			merged = append(merged, existing)
			continue
		}
		merged = append(merged, incoming)
	}

	r.items = merged
	r.reasonID = reasonID
	r.isPartial = isPartial
	r.remarks = remarks
	r.updatedAt = now.UTC()
	return nil
}

// Approve decides the request. amounts holds the refundable amount per order
// item and must cover every item; total must equal their sum.
func (r *Return) Approve(
	approver string,
	total kernel.Money,
	amounts map[kernel.UUID]kernel.Money,
	remarks string,
	now time.Time,
) error {
	if err := r.requirePending("approve"); err != nil {
		return err
	}

	sum := kernel.Money{}
	for _, item := range r.items {
		amount, ok := amounts[item.orderItemID]
		if !ok {
			return errs.NewValueIsRequiredErrorWithCause("refundableAmount",
				fmt.Errorf("no amount for order item %s", item.orderItemID))
		}
		sum = sum.Add(amount)
	}
	if !sum.Equal(total) {
		return errs.NewAmountMismatchError(entity, total, sum)
	}

	if err := r.transition(Approved, approver, remarks, now); err != nil {
		return err
	}
	for _, item := range r.items {
		item.refundableAmount = amounts[item.orderItemID]
	}
	r.refundableAmount = total
	return nil
}

// Reject decides the request without a refund.
func (r *Return) Reject(rejecter, remarks string, now time.Time) error {
	if err := r.requirePending("reject"); err != nil {
		return err
	}
	return r.transition(Rejected, rejecter, remarks, now)
}

// Delete withdraws a Pending request. The row is kept and flagged.
func (r *Return) Delete(now time.Time) error {
	if err := r.requirePending("delete"); err != nil {
		return err
	}
	deletedAt := now.UTC()
	r.deletedAt = &deletedAt
	r.updatedAt = deletedAt
	return nil
}

// CheckPending fails with an InvalidState error unless the request is
// Pending and not deleted, i.e. unless operation may still be applied.
func (r *Return) CheckPending(operation string) error {
	return r.requirePending(operation)
}

func (r *Return) MarkPersisted(version int64) {
	r.version = version
}

func (r *Return) PendingEntries() []ledger.Entry {
	return r.journal.Pending()
}

func (r *Return) ClearPendingEntries() {
	r.journal.Clear()
}

func (r *Return) transition(to Status, actor, remarks string, now time.Time) error {
	if err := lifecycle.Returns().Check(r.status, to); err != nil {
		return err
	}
	entry, err := ledger.NewEntry(lifecycle.Return, r.id, r.orderID, r.status, to, actor, remarks, now)
	if err != nil {
		return err
	}

	processedAt := now.UTC()
	r.status = to
	r.processedBy = actor
	r.processedAt = &processedAt
	r.decisionRemarks = remarks
	r.updatedAt = processedAt
	r.journal.Record(entry)
	return nil
}

func (r *Return) requirePending(operation string) error {
	if r.IsDeleted() {
		return errs.NewInvalidStateError(entity, "Deleted", operation)
	}
	if r.status != Pending {
		return errs.NewInvalidStateError(entity, r.status.String(), operation)
	}
	return nil
}

func (r *Return) itemFor(orderItemID kernel.UUID) *Item {
	for _, item := range r.items {
		if item.orderItemID.IsEqual(orderItemID) {
			return item
		}
	}
	return nil
}

func validateItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.orderItemID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items are invalid",
				fmt.Errorf("order item %s appears twice", item.orderItemID))
		}
		seen[item.orderItemID] = struct{}{}
	}
	return nil
}
