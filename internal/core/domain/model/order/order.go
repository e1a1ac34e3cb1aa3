package order

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

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Checkout carries everything captured at purchase time besides the items.
type Checkout struct {
	PaymentMethod   string
	ShippingAddress string
	BillingAddress  string

	// Discount is the order-level discount on top of item discounts.
	Discount kernel.Money
	Tax      kernel.Money
	Shipping kernel.Money

	CancellationPolicyID *kernel.UUID
	ReturnPolicyID       *kernel.UUID
}

// Order is the aggregate root owning line items, monetary totals and the
// order status history.
//
// Order follows these invariants:
//   - at least one item, item ids are unique
//   - subtotal equals the sum of item line totals
//   - total = subtotal − discount + tax + shipping, none of them negative
//   - status is always a member of the order graph
type Order struct {
	id     kernel.UUID
	userID kernel.UUID
	items  []*Item

	checkout Checkout
	subtotal kernel.Money
	total    kernel.Money

	status           Status
	paymentReference string

	// history holds persisted entries followed by the ones recorded since load.
	history []ledger.Entry
	journal ledger.Journal

	createdAt time.Time
	updatedAt time.Time
	version   int64

	isConstructed bool
}

// NewOrder creates an order in Pending status and computes its totals.
//
//	item, _ := order.NewItem(kernel.NewUUID(), productID, "Desk lamp", price, 3, kernel.Money{})
//	o, err := order.NewOrder(kernel.NewUUID(), userID, []*order.Item{item}, order.Checkout{
//	    PaymentMethod:   "card",
//	    ShippingAddress: "1 Main St",
//	    BillingAddress:  "1 Main St",
//	}, time.Now())
func NewOrder(id, userID kernel.UUID, items []*Item, checkout Checkout, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setCheckout(checkout),
	); err != nil {
		return nil, err
	}

	if err := o.computeTotals(); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the persisted state of an order, used by RestoreOrder.
type Snapshot struct {
	ID               kernel.UUID
	UserID           kernel.UUID
	Items            []*Item
	Checkout         Checkout
	Subtotal         kernel.Money
	Total            kernel.Money
	Status           Status
	PaymentReference string
	History          []ledger.Entry
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// RestoreOrder rebuilds an order from storage. Stored totals must still
// reconcile with the stored items.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:           s.Status,
		paymentReference: s.PaymentReference,
		history:          slices.Clone(s.History),
		createdAt:        s.CreatedAt.UTC(),
		updatedAt:        s.UpdatedAt.UTC(),
		version:          s.Version,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setUserID(s.UserID),
		o.setItems(s.Items),
		o.setCheckout(s.Checkout),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := o.computeTotals(); err != nil {
		return nil, err
	}
	if !o.subtotal.Equal(s.Subtotal) {
		return nil, errs.NewAmountMismatchError("order subtotal", s.Subtotal, o.subtotal)
	}
	if !o.total.Equal(s.Total) {
		return nil, errs.NewAmountMismatchError("order", s.Total, o.total)
	}

	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                    { return o.id }
func (o *Order) UserID() kernel.UUID                { return o.userID }
func (o *Order) Status() Status                     { return o.status }
func (o *Order) PaymentMethod() string              { return o.checkout.PaymentMethod }
func (o *Order) ShippingAddress() string            { return o.checkout.ShippingAddress }
func (o *Order) BillingAddress() string             { return o.checkout.BillingAddress }
func (o *Order) Subtotal() kernel.Money             { return o.subtotal }
func (o *Order) Discount() kernel.Money             { return o.checkout.Discount }
func (o *Order) Tax() kernel.Money                  { return o.checkout.Tax }
func (o *Order) Shipping() kernel.Money             { return o.checkout.Shipping }
func (o *Order) Total() kernel.Money                { return o.total }
func (o *Order) CancellationPolicyID() *kernel.UUID { return o.checkout.CancellationPolicyID }
func (o *Order) ReturnPolicyID() *kernel.UUID       { return o.checkout.ReturnPolicyID }
func (o *Order) PaymentReference() string           { return o.paymentReference }
func (o *Order) CreatedAt() time.Time               { return o.createdAt }
func (o *Order) UpdatedAt() time.Time               { return o.updatedAt }

// Version is the optimistic concurrency token of the last persisted state.
func (o *Order) Version() int64 { return o.version }

// Items returns the order lines in their original order.
func (o *Order) Items() []*Item {
	return slices.Clone(o.items)
}

// Item looks up an order line by id.
func (o *Order) Item(id kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(id) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderItemId", id.String())
}

// History returns the status history in chronological order.
func (o *Order) History() []ledger.Entry {
	return slices.Clone(o.history)
}

// DeliveredAt returns when the order was moved to Delivered.
func (o *Order) DeliveredAt() (time.Time, bool) {
	for i := len(o.history) - 1; i >= 0; i-- {
		if o.history[i].To() == Delivered.String() {
			return o.history[i].At(), true
		}
	}
	return time.Time{}, false
}

// ChangeStatus moves the order to the given status on behalf of actor.
// Moving to the current status reports changed == false and records nothing.
// A move the order graph rejects returns an *errs.InvalidTransitionError and
// leaves the order untouched.
func (o *Order) ChangeStatus(to Status, actor, remarks string, now time.Time) (bool, error) {
	if err := to.Validate(); err != nil {
		return false, err
	}
	if to == o.status {
		return false, nil
	}
	if err := lifecycle.Orders().Check(o.status, to); err != nil {
		return false, err
	}

	entry, err := ledger.NewEntry(lifecycle.Order, o.id, o.id, o.status, to, actor, remarks, now)
	if err != nil {
		return false, err
	}

	o.status = to
	o.history = append(o.history, entry)
	o.journal.Record(entry)
	o.Touch(now)
	return true, nil
}

// CanMoveTo reports whether the order graph allows moving to status.
func (o *Order) CanMoveTo(status Status) bool {
	return lifecycle.Orders().IsAllowed(o.status, status)
}

// AttachPayment stores the payment reference returned by the gateway.
// Attaching the same reference twice is allowed; replacing it is not.
func (o *Order) AttachPayment(reference string, now time.Time) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("paymentReference")
	}
	if o.paymentReference == reference {
		return nil
	}
	if o.paymentReference != "" {
		return errs.NewInvalidStateError("order", "paid", "attach payment to")
	}
	if lifecycle.Orders().IsTerminal(o.status) {
		return errs.NewInvalidStateError("order", o.status.String(), "attach payment to")
	}

	o.paymentReference = reference
	o.Touch(now)
	return nil
}

// Touch bumps the modification time. Persisting a touched order bumps its
// version, which serialises concurrent requests made against the same order.
func (o *Order) Touch(now time.Time) {
	o.updatedAt = now.UTC()
}

// MarkPersisted is called by persistence after a successful write.
func (o *Order) MarkPersisted(version int64) {
	o.version = version
}

func (o *Order) PendingEntries() []ledger.Entry {
	return o.journal.Pending()
}

func (o *Order) ClearPendingEntries() {
	o.journal.Clear()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items are invalid", fmt.Errorf("item %s appears twice", item.id))
		}
		seen[item.id] = struct{}{}
	}

	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setCheckout(c Checkout) error {
	var errList []error
	if strings.TrimSpace(c.PaymentMethod) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("paymentMethod"))
	}
	if strings.TrimSpace(c.ShippingAddress) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("shippingAddress"))
	}
	if strings.TrimSpace(c.BillingAddress) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("billingAddress"))
	}
	if c.CancellationPolicyID != nil {
		errList = append(errList, c.CancellationPolicyID.Validate())
	}
	if c.ReturnPolicyID != nil {
		errList = append(errList, c.ReturnPolicyID.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	o.checkout = c
	return nil
}

func (o *Order) computeTotals() error {
	subtotal := kernel.Money{}
	for _, item := range o.items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	afterDiscount, err := subtotal.Sub(o.checkout.Discount)
	if err != nil {
		return errs.NewValueIsOutOfRangeErrorWithCause("discount", o.checkout.Discount, "0.00", subtotal, err)
	}

	o.subtotal = subtotal
	o.total = kernel.Sum(afterDiscount, o.checkout.Tax, o.checkout.Shipping)
	return nil
}
