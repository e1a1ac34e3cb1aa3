package order

import (
	"errors"
	"fmt"
	"strings"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is an order line. Its price, quantity and discount are snapshots taken
// at purchase time and never change afterwards.
type Item struct {
	id          kernel.UUID
	productID   kernel.UUID
	productName string
	unitPrice   kernel.Money
	quantity    int
	// discount applied to the whole line, not per unit
	discount kernel.Money

	isConstructed bool
}

func NewItem(
	id, productID kernel.UUID,
	productName string,
	unitPrice kernel.Money,
	quantity int,
	discount kernel.Money,
) (*Item, error) {
	var nameErr error
	if strings.TrimSpace(productName) == "" {
		nameErr = errs.NewValueIsRequiredError("productName")
	}
	var quantityErr error
	if quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is less than 1", quantity))
	}
	if err := errors.Join(id.Validate(), productID.Validate(), nameErr, quantityErr); err != nil {
		return nil, err
	}

	gross := unitPrice.Times(quantity)
	if discount.GreaterThan(gross) {
		return nil, errs.NewValueIsOutOfRangeError("discount", discount, "0.00", gross)
	}

	return &Item{
		id:            id,
		productID:     productID,
		productName:   productName,
		unitPrice:     unitPrice,
		quantity:      quantity,
		discount:      discount,
		isConstructed: true,
	}, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID         { return i.id }
func (i *Item) ProductID() kernel.UUID  { return i.productID }
func (i *Item) ProductName() string     { return i.productName }
func (i *Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i *Item) Quantity() int           { return i.quantity }
func (i *Item) Discount() kernel.Money  { return i.discount }

// LineTotal is unit price · quantity − discount.
func (i *Item) LineTotal() kernel.Money {
	total, _ := i.unitPrice.Times(i.quantity).Sub(i.discount)
	return total
}
