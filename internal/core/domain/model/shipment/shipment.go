// Package shipment tracks the carrier handoff of an order's items.
// A shipment is informational to returns: return eligibility depends on the
// order status, not on the shipment.
package shipment

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
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")
	ErrItemIsNotConstructed     = errors.New("Item must be created via NewItem constructor")
)

// Item maps a shipped quantity to an order item.
type Item struct {
	id          kernel.UUID
	orderItemID kernel.UUID
	quantity    int

	isConstructed bool
}

func NewItem(id, orderItemID kernel.UUID, quantity int) (*Item, error) {
	var quantityErr error
	if quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is less than 1", quantity))
	}
	if err := errors.Join(id.Validate(), orderItemID.Validate(), quantityErr); err != nil {
		return nil, err
	}
	return &Item{id: id, orderItemID: orderItemID, quantity: quantity, isConstructed: true}, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID          { return i.id }
func (i *Item) OrderItemID() kernel.UUID { return i.orderItemID }
func (i *Item) Quantity() int            { return i.quantity }

type Shipment struct {
	id             kernel.UUID
	orderID        kernel.UUID
	carrier        string
	trackingNumber string
	status         Status
	items          []*Item

	estimatedDeliveryAt *time.Time
	deliveredAt         *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int64
	journal   ledger.Journal

	isConstructed bool
}

// NewShipment creates a Pending shipment. Quantities against the order are
// checked by the caller.
func NewShipment(
	id, orderID kernel.UUID,
	carrier, trackingNumber string,
	items []*Item,
	estimatedDeliveryAt *time.Time,
	now time.Time,
) (*Shipment, error) {
	var carrierErr, trackingErr error
	if strings.TrimSpace(carrier) == "" {
		carrierErr = errs.NewValueIsRequiredError("carrier")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		trackingErr = errs.NewValueIsRequiredError("trackingNumber")
	}
	if err := errors.Join(id.Validate(), orderID.Validate(), carrierErr, trackingErr, validateItems(items)); err != nil {
		return nil, err
	}

	return &Shipment{
		id:                  id,
		orderID:             orderID,
		carrier:             carrier,
		trackingNumber:      trackingNumber,
		status:              Pending,
		items:               slices.Clone(items),
		estimatedDeliveryAt: utcPtr(estimatedDeliveryAt),
		createdAt:           now.UTC(),
		updatedAt:           now.UTC(),
		isConstructed:       true,
	}, nil
}

// Snapshot is the persisted state of a shipment.
type Snapshot struct {
	ID                  kernel.UUID
	OrderID             kernel.UUID
	Carrier             string
	TrackingNumber      string
	Status              Status
	Items               []*Item
	EstimatedDeliveryAt *time.Time
	DeliveredAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int64
}

func RestoreShipment(s Snapshot) (*Shipment, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.Status.Validate(), validateItems(s.Items)); err != nil {
		return nil, err
	}
	return &Shipment{
		id:                  s.ID,
		orderID:             s.OrderID,
		carrier:             s.Carrier,
		trackingNumber:      s.TrackingNumber,
		status:              s.Status,
		items:               slices.Clone(s.Items),
		estimatedDeliveryAt: utcPtr(s.EstimatedDeliveryAt),
		deliveredAt:         utcPtr(s.DeliveredAt),
		createdAt:           s.CreatedAt.UTC(),
		updatedAt:           s.UpdatedAt.UTC(),
		version:             s.Version,
		isConstructed:       true,
	}, nil
}

func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() kernel.UUID                 { return s.id }
func (s *Shipment) OrderID() kernel.UUID            { return s.orderID }
func (s *Shipment) Carrier() string                 { return s.carrier }
func (s *Shipment) TrackingNumber() string          { return s.trackingNumber }
func (s *Shipment) Status() Status                  { return s.status }
func (s *Shipment) Items() []*Item                  { return slices.Clone(s.items) }
func (s *Shipment) EstimatedDeliveryAt() *time.Time { return s.estimatedDeliveryAt }
func (s *Shipment) DeliveredAt() *time.Time         { return s.deliveredAt }
func (s *Shipment) CreatedAt() time.Time            { return s.createdAt }
func (s *Shipment) UpdatedAt() time.Time            { return s.updatedAt }
func (s *Shipment) Version() int64                  { return s.version }

// ChangeStatus moves the shipment along the shipment graph. Reaching Delivered
// stamps the delivery time. A non-nil estimatedDeliveryAt replaces the estimate.
func (s *Shipment) ChangeStatus(to Status, actor string, estimatedDeliveryAt *time.Time, now time.Time) (bool, error) {
	if err := to.Validate(); err != nil {
		return false, err
	}
	if to == s.status {
		return false, nil
	}
	if err := lifecycle.Shipments().Check(s.status, to); err != nil {
		return false, err
	}
	entry, err := ledger.NewEntry(lifecycle.Shipment, s.id, s.orderID, s.status, to, actor, s.trackingNumber, now)
	if err != nil {
		return false, err
	}

	s.status = to
	if estimatedDeliveryAt != nil {
		s.estimatedDeliveryAt = utcPtr(estimatedDeliveryAt)
	}
	if to == Delivered {
		deliveredAt := now.UTC()
		s.deliveredAt = &deliveredAt
	}
	s.updatedAt = now.UTC()
	s.journal.Record(entry)
	return true, nil
}

func (s *Shipment) MarkPersisted(version int64) {
	s.version = version
}

func (s *Shipment) PendingEntries() []ledger.Entry {
	return s.journal.Pending()
}

func (s *Shipment) ClearPendingEntries() {
	s.journal.Clear()
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

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
