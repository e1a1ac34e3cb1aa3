package refund

import (
	"errors"
	"fmt"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is the money paid back for a quantity of one order item.
type Item struct {
	id          kernel.UUID
	orderItemID kernel.UUID
	quantity    int
	amount      kernel.Money

	isConstructed bool
}

func NewItem(id, orderItemID kernel.UUID, quantity int, amount kernel.Money) (*Item, error) {
	var quantityErr error
	if quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is less than 1", quantity))
	}
	if err := errors.Join(id.Validate(), orderItemID.Validate(), quantityErr); err != nil {
		return nil, err
	}
	return &Item{
		id:            id,
		orderItemID:   orderItemID,
		quantity:      quantity,
		amount:        amount,
		isConstructed: true,
	}, nil
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
func (i *Item) Amount() kernel.Money     { return i.amount }
