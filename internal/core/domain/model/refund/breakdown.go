package refund

import (
	"errors"
	"fmt"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/errs"
)

// Breakdown decomposes a refund into the components of the original charge.
// Discount is the share of item and order discounts that is not paid back.
type Breakdown struct {
	Base     kernel.Money
	Tax      kernel.Money
	Discount kernel.Money
	Shipping kernel.Money
}

// Total is Base − Discount + Tax + Shipping.
func (b Breakdown) Total() (kernel.Money, error) {
	net, err := b.Base.Sub(b.Discount)
	if err != nil {
		return kernel.Money{}, errs.NewValueIsOutOfRangeErrorWithCause("discount", b.Discount, "0.00", b.Base, err)
	}
	return kernel.Sum(net, b.Tax, b.Shipping), nil
}

// Source links a refund to the request that authorised it.
// Exactly one of the two ids is set.
type Source struct {
	CancellationID *kernel.UUID
	ReturnID       *kernel.UUID
}

func FromCancellation(id kernel.UUID) Source {
	return Source{CancellationID: &id}
}

func FromReturn(id kernel.UUID) Source {
	return Source{ReturnID: &id}
}

func (s Source) Validate() error {
	switch {
	case s.CancellationID != nil && s.ReturnID != nil:
		return errs.NewValueIsInvalidErrorWithCause("source is invalid",
			errors.New("both cancellation and return are set"))
	case s.CancellationID != nil:
		return s.CancellationID.Validate()
	case s.ReturnID != nil:
		return s.ReturnID.Validate()
	default:
		return errs.NewValueIsRequiredError("source")
	}
}

func (s Source) String() string {
	switch {
	case s.CancellationID != nil:
		return fmt.Sprintf("cancellation %s", s.CancellationID)
	case s.ReturnID != nil:
		return fmt.Sprintf("return %s", s.ReturnID)
	default:
		return "none"
	}
}
