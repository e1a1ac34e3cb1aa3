package returns

import (
	"errors"
	"fmt"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is the quantity of one order item sent back, with inspection notes.
type Item struct {
	id               kernel.UUID
	orderItemID      kernel.UUID
	quantity         int
	refundableAmount kernel.Money
	remarks          string

	isConstructed bool
}

func NewItem(id, orderItemID kernel.UUID, quantity int, remarks string) (*Item, error) {
	return RestoreItem(id, orderItemID, quantity, remarks, kernel.Money{})
}

// RestoreItem rebuilds a persisted item including its approved refundable amount.
func RestoreItem(id, orderItemID kernel.UUID, quantity int, remarks string, refundableAmount kernel.Money) (*Item, error) {
	var quantityErr error
	if quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is less than 1", quantity))
	}
	if err := errors.Join(id.Validate(), orderItemID.Validate(), quantityErr); err != nil {
		return nil, err
	}

	return &Item{
		id:               id,
		orderItemID:      orderItemID,
		quantity:         quantity,
		refundableAmount: refundableAmount,
		remarks:          remarks,
		isConstructed:    true,
	}, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID                { return i.id }
func (i *Item) OrderItemID() kernel.UUID       { return i.orderItemID }
func (i *Item) Quantity() int                  { return i.quantity }
func (i *Item) RefundableAmount() kernel.Money { return i.refundableAmount }
func (i *Item) Remarks() string                { return i.remarks }
