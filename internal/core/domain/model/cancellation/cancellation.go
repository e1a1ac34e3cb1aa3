// Package cancellation provides the Cancellation aggregate: a request to
// cancel some or all of an order's items before it is delivered.
//
// A cancellation is created Pending and is decided exactly once, Approved or
// Rejected. While Pending it can be edited or withdrawn (soft delete); once
// decided it is immutable.
package cancellation

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

var ErrCancellationIsNotConstructed = errors.New("Cancellation must be created via NewCancellation constructor")

const entity = "cancellation"

type Cancellation struct {
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

// NewCancellation creates a Pending cancellation. Item eligibility against the
// order is checked by the caller; here only the shape of the item set is validated.
func NewCancellation(
	id, orderID, reasonID kernel.UUID,
	items []*Item,
	isPartial bool,
	requestedBy, remarks string,
	now time.Time,
) (*Cancellation, error) {
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

	return &Cancellation{
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

// Snapshot is the persisted state of a cancellation.
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

func RestoreCancellation(s Snapshot) (*Cancellation, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.ReasonID.Validate(),
		s.Status.Validate(),
		validateItems(s.Items),
	); err != nil {
		return nil, err
	}

	return &Cancellation{
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

func (c *Cancellation) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCancellationIsNotConstructed
	}
	return nil
}

func (c *Cancellation) ID() kernel.UUID                { return c.id }
func (c *Cancellation) OrderID() kernel.UUID           { return c.orderID }
func (c *Cancellation) ReasonID() kernel.UUID          { return c.reasonID }
func (c *Cancellation) Status() Status                 { return c.status }
func (c *Cancellation) IsPartial() bool                { return c.isPartial }
func (c *Cancellation) Remarks() string                { return c.remarks }
func (c *Cancellation) RequestedBy() string            { return c.requestedBy }
func (c *Cancellation) RequestedAt() time.Time         { return c.requestedAt }
func (c *Cancellation) ProcessedBy() string            { return c.processedBy }
func (c *Cancellation) ProcessedAt() *time.Time        { return c.processedAt }
func (c *Cancellation) DecisionRemarks() string        { return c.decisionRemarks }
func (c *Cancellation) RefundableAmount() kernel.Money { return c.refundableAmount }
func (c *Cancellation) UpdatedAt() time.Time           { return c.updatedAt }
func (c *Cancellation) DeletedAt() *time.Time          { return c.deletedAt }
func (c *Cancellation) Version() int64                 { return c.version }
func (c *Cancellation) Items() []*Item                 { return slices.Clone(c.items) }
func (c *Cancellation) IsDeleted() bool                { return c.deletedAt != nil }

// IsActive reports whether the request still awaits a decision.
func (c *Cancellation) IsActive() bool {
	return c.status == Pending && !c.IsDeleted()
}

// Update replaces reason, remarks and the item set while the request is Pending.
// Items are merged by order item: an existing item keeps its id and takes the
// new quantity, new order items are inserted and missing ones are dropped.
func (c *Cancellation) Update(reasonID kernel.UUID, items []*Item, isPartial bool, remarks string, now time.Time) error {
	if err := c.requirePending("update"); err != nil {
		return err
	}
	if err := errors.Join(reasonID.Validate(), validateItems(items)); err != nil {
		return err
	}

	merged := make([]*Item, 0, len(items))
	for _, incoming := range items {
		if existing := c.itemFor(incoming.orderItemID); existing != nil {
			existing.quantity = incoming.quantity
			merged = append(merged, existing)
			continue
		}
		merged = append(merged, incoming)
	}

	c.items = merged
	c.reasonID = reasonID
	c.isPartial = isPartial
	c.remarks = remarks
	c.updatedAt = now.UTC()
	return nil
}

// Approve decides the request. amounts holds the refundable amount per order
// item and must cover every item; total must equal their sum.
func (c *Cancellation) Approve(
	approver string,
	total kernel.Money,
	amounts map[kernel.UUID]kernel.Money,
	remarks string,
	now time.Time,
) error {
	if err := c.requirePending("approve"); err != nil {
		return err
	}

	sum := kernel.Money{}
	for _, item := range c.items {
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

	if err := c.transition(Approved, approver, remarks, now); err != nil {
		return err
	}
	for _, item := range c.items {
		item.refundableAmount = amounts[item.orderItemID]
	}
	c.refundableAmount = total
	return nil
}

// Reject decides the request without a refund.
func (c *Cancellation) Reject(rejecter, remarks string, now time.Time) error {
	if err := c.requirePending("reject"); err != nil {
		return err
	}
	return c.transition(Rejected, rejecter, remarks, now)
}

// Delete withdraws a Pending request. The row is kept and flagged.
func (c *Cancellation) Delete(now time.Time) error {
	if err := c.requirePending("delete"); err != nil {
		return err
	}
	deletedAt := now.UTC()
	c.deletedAt = &deletedAt
	c.updatedAt = deletedAt
	return nil
}

// CheckPending fails with an InvalidState error unless the request is
// Pending and not deleted, i.e. unless operation may still be applied.
func (c *Cancellation) CheckPending(operation string) error {
	return c.requirePending(operation)
}

func (c *Cancellation) MarkPersisted(version int64) {
	c.version = version
}

func (c *Cancellation) PendingEntries() []ledger.Entry {
	return c.journal.Pending()
}

func (c *Cancellation) ClearPendingEntries() {
	c.journal.Clear()
}

func (c *Cancellation) transition(to Status, actor, remarks string, now time.Time) error {
	if err := lifecycle.Cancellations().Check(c.status, to); err != nil {
		return err
	}
	entry, err := ledger.NewEntry(lifecycle.Cancellation, c.id, c.orderID, c.status, to, actor, remarks, now)
	if err != nil {
		return err
	}

	processedAt := now.UTC()
	c.status = to
	c.processedBy = actor
	c.processedAt = &processedAt
	c.decisionRemarks = remarks
	c.updatedAt = processedAt
	c.journal.Record(entry)
	return nil
}

func (c *Cancellation) requirePending(operation string) error {
	if c.IsDeleted() {
		return errs.NewInvalidStateError(entity, "Deleted", operation)
	}
	if c.status != Pending {
		return errs.NewInvalidStateError(entity, c.status.String(), operation)
	}
	return nil
}

func (c *Cancellation) itemFor(orderItemID kernel.UUID) *Item {
	for _, item := range c.items {
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
