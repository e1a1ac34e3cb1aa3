// Package refund provides the Refund aggregate. Refunds are created by the
// approval of a cancellation or a return, never directly by a customer, and
// then progress through their own lifecycle while money is sent back through
// the payment gateway.
//
// The sum of the refund items always equals the refund total; every write
// that could break this is rejected with an AmountMismatch error.
package refund

import (
	"errors"
	"slices"
	"strings"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/pkg/errs"
)

var ErrRefundIsNotConstructed = errors.New("Refund must be created via NewRefund constructor")

type Refund struct {
	id            kernel.UUID
	orderID       kernel.UUID
	source        Source
	breakdown     Breakdown
	total         kernel.Money
	paymentMethod string
	items         []*Item

	status               Status
	transactionReference string
	failureReason        string
	completedAt          *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int64
	journal   ledger.Journal

	isConstructed bool
}

// NewRefund creates a Pending refund for the given source request.
func NewRefund(
	id, orderID kernel.UUID,
	source Source,
	breakdown Breakdown,
	items []*Item,
	paymentMethod string,
	now time.Time,
) (*Refund, error) {
	var methodErr error
	if strings.TrimSpace(paymentMethod) == "" {
		methodErr = errs.NewValueIsRequiredError("paymentMethod")
	}
	if err := errors.Join(id.Validate(), orderID.Validate(), source.Validate(), validateItems(items), methodErr); err != nil {
		return nil, err
	}

	total, err := breakdown.Total()
	if err != nil {
		return nil, err
	}
	if err = checkAmounts(items, total); err != nil {
		return nil, err
	}

	return &Refund{
		id:            id,
		orderID:       orderID,
		source:        source,
		breakdown:     breakdown,
		total:         total,
		paymentMethod: paymentMethod,
		items:         slices.Clone(items),
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

// Snapshot is the persisted state of a refund.
type Snapshot struct {
	ID                   kernel.UUID
	OrderID              kernel.UUID
	Source               Source
	Breakdown            Breakdown
	Total                kernel.Money
	PaymentMethod        string
	Items                []*Item
	Status               Status
	TransactionReference string
	FailureReason        string
	CompletedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Version              int64
}

// RestoreRefund rebuilds a refund; the stored total must match both the
// breakdown and the items.
func RestoreRefund(s Snapshot) (*Refund, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.Source.Validate(),
		s.Status.Validate(),
		validateItems(s.Items),
	); err != nil {
		return nil, err
	}

	total, err := s.Breakdown.Total()
	if err != nil {
		return nil, err
	}
	if !total.Equal(s.Total) {
		return nil, errs.NewAmountMismatchError("refund breakdown", s.Total, total)
	}
	if err = checkAmounts(s.Items, total); err != nil {
		return nil, err
	}

	return &Refund{
		id:                   s.ID,
		orderID:              s.OrderID,
		source:               s.Source,
		breakdown:            s.Breakdown,
		total:                total,
		paymentMethod:        s.PaymentMethod,
		items:                slices.Clone(s.Items),
		status:               s.Status,
		transactionReference: s.TransactionReference,
		failureReason:        s.FailureReason,
		completedAt:          s.CompletedAt,
		createdAt:            s.CreatedAt.UTC(),
		updatedAt:            s.UpdatedAt.UTC(),
		version:              s.Version,
		isConstructed:        true,
	}, nil
}

func (r *Refund) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRefundIsNotConstructed
	}
	return nil
}

func (r *Refund) ID() kernel.UUID              { return r.id }
func (r *Refund) OrderID() kernel.UUID         { return r.orderID }
func (r *Refund) Source() Source               { return r.source }
func (r *Refund) Breakdown() Breakdown         { return r.breakdown }
func (r *Refund) Total() kernel.Money          { return r.total }
func (r *Refund) PaymentMethod() string        { return r.paymentMethod }
func (r *Refund) Items() []*Item               { return slices.Clone(r.items) }
func (r *Refund) Status() Status               { return r.status }
func (r *Refund) TransactionReference() string { return r.transactionReference }
func (r *Refund) FailureReason() string        { return r.failureReason }
func (r *Refund) CompletedAt() *time.Time      { return r.completedAt }
func (r *Refund) CreatedAt() time.Time         { return r.createdAt }
func (r *Refund) UpdatedAt() time.Time         { return r.updatedAt }
func (r *Refund) Version() int64               { return r.version }

// Changes are the non-status fields that may travel with a status change.
// Nil fields are left as they are.
type Changes struct {
	TransactionReference *string
	PaymentMethod        *string
	FailureReason        *string
	Breakdown            *Breakdown
	Items                []*Item
}

// ChangeStatus moves the refund to status to, applying changes in the same step.
// Moving to the current status is a no-op reporting changed == false. When the
// graph rejects the move, or the changed amounts no longer add up, nothing is
// modified.
func (r *Refund) ChangeStatus(to Status, changes Changes, actor string, now time.Time) (bool, error) {
	if err := to.Validate(); err != nil {
		return false, err
	}
	if to == r.status {
		return false, nil
	}
	if err := lifecycle.Refunds().Check(r.status, to); err != nil {
		return false, err
	}

	breakdown := r.breakdown
	if changes.Breakdown != nil {
		breakdown = *changes.Breakdown
	}
	items := r.items
	if changes.Items != nil {
		if err := validateItems(changes.Items); err != nil {
			return false, err
		}
		items = changes.Items
	}
	total, err := breakdown.Total()
	if err != nil {
		return false, err
	}
	if err = checkAmounts(items, total); err != nil {
		return false, err
	}
	if changes.PaymentMethod != nil && strings.TrimSpace(*changes.PaymentMethod) == "" {
		return false, errs.NewValueIsRequiredError("paymentMethod")
	}

	entry, err := ledger.NewEntry(lifecycle.Refund, r.id, r.orderID, r.status, to, actor, remarksFor(changes), now)
	if err != nil {
		return false, err
	}

	r.status = to
	r.breakdown = breakdown
	r.total = total
	r.items = slices.Clone(items)
	if changes.TransactionReference != nil {
		r.transactionReference = *changes.TransactionReference
	}
	if changes.PaymentMethod != nil {
		r.paymentMethod = *changes.PaymentMethod
	}
	if changes.FailureReason != nil {
		r.failureReason = *changes.FailureReason
	}
	if to == Completed {
		completedAt := now.UTC()
		r.completedAt = &completedAt
	}
	r.updatedAt = now.UTC()
	r.journal.Record(entry)
	return true, nil
}

// CanMoveTo reports whether the refund graph allows moving to status.
func (r *Refund) CanMoveTo(status Status) bool {
	return lifecycle.Refunds().IsAllowed(r.status, status)
}

func (r *Refund) MarkPersisted(version int64) {
	r.version = version
}

func (r *Refund) PendingEntries() []ledger.Entry {
	return r.journal.Pending()
}

func (r *Refund) ClearPendingEntries() {
	r.journal.Clear()
}

func remarksFor(c Changes) string {
	switch {
	case c.FailureReason != nil:
		return *c.FailureReason
	case c.TransactionReference != nil:
		return "transaction " + *c.TransactionReference
	default:
		return ""
	}
}

func validateItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func checkAmounts(items []*Item, total kernel.Money) error {
	sum := kernel.Money{}
	for _, item := range items {
		sum = sum.Add(item.amount)
	}
	if !sum.Equal(total) {
		return errs.NewAmountMismatchError("refund", total, sum)
	}
	return nil
}
