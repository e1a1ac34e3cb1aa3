package services

import (
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/pkg/errs"
)

// QuotedLine is the refundable amount of one requested order line.
type QuotedLine struct {
	OrderItemID kernel.UUID
	Quantity    int
	Amount      kernel.Money
}

// RefundQuote is the result of RefundCalculator.Calculate. The line amounts
// always add up to Total.
type RefundQuote struct {
	Breakdown refund.Breakdown
	Total     kernel.Money
	Lines     []QuotedLine
}

// Amounts returns the quoted amount per order item.
func (q RefundQuote) Amounts() map[kernel.UUID]kernel.Money {
	amounts := make(map[kernel.UUID]kernel.Money, len(q.Lines))
	for _, line := range q.Lines {
		amounts[line.OrderItemID] = line.Amount
	}
	return amounts
}

// RefundItems turns the quote into refund items with fresh ids.
func (q RefundQuote) RefundItems() ([]*refund.Item, error) {
	items := make([]*refund.Item, 0, len(q.Lines))
	for _, line := range q.Lines {
		item, err := refund.NewItem(kernel.NewUUID(), line.OrderItemID, line.Quantity, line.Amount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// RefundCalculator prices a set of order lines for refund.
//
// Every order line carries a fixed share of the order discount and tax,
// proportional to its net amount (unit price · Q − item discount). Shares are
// rounded on the running sum over the order's lines, so they add up to the
// order discount and tax exactly.
//
// A request for q units of a line, after p units of it were already approved,
// takes units p+1..p+q. Each of the line's amounts A (item discount, discount
// share, tax share) is split the same way, as A·(p+q)/Q − A·p/Q, each term
// rounded to cents. Refunds covering a line bit by bit therefore add up to
// what the customer paid for it:
//
//	amount = unit price · q − item discount slice − discount slice + tax slice
//
// Shipping is refunded only when includeShipping is set and is added to the first line.
type RefundCalculator struct{}

func NewRefundCalculator() RefundCalculator {
	return RefundCalculator{}
}

// Calculate prices lines. approved holds, per order item, the units already
// covered by approved cancellations and returns; nil means none.
func (RefundCalculator) Calculate(
	o *order.Order,
	lines []Line,
	approved map[kernel.UUID]int,
	includeShipping bool,
) (RefundQuote, error) {
	if err := o.Validate(); err != nil {
		return RefundQuote{}, err
	}
	if len(lines) == 0 {
		return RefundQuote{}, errs.NewValueIsRequiredError("lines")
	}

	discountShares := lineShares(o, o.Discount())
	taxShares := lineShares(o, o.Tax())

	var (
		quote       RefundQuote
		baseSum     kernel.Money
		discountSum kernel.Money
		taxSum      kernel.Money
		quoted      = make([]QuotedLine, 0, len(lines))
	)
	for _, line := range lines {
		item, err := o.Item(line.OrderItemID)
		if err != nil {
			return RefundQuote{}, err
		}
		from := approved[item.ID()]
		remaining := item.Quantity() - from
		if line.Quantity < 1 || line.Quantity > remaining {
			return RefundQuote{}, errs.NewValueIsOutOfRangeError("quantity", line.Quantity, 1, remaining)
		}
		to := from + line.Quantity

		base := item.UnitPrice().Times(line.Quantity)
		itemDiscount, err := unitSlice(item.Discount(), from, to, item.Quantity())
		if err != nil {
			return RefundQuote{}, err
		}
		orderDiscount, err := unitSlice(discountShares[item.ID()], from, to, item.Quantity())
		if err != nil {
			return RefundQuote{}, err
		}
		tax, err := unitSlice(taxShares[item.ID()], from, to, item.Quantity())
		if err != nil {
			return RefundQuote{}, err
		}

		amount, err := base.Add(tax).Sub(itemDiscount.Add(orderDiscount))
		if err != nil {
			return RefundQuote{}, err
		}

		baseSum = baseSum.Add(base)
		discountSum = discountSum.Add(itemDiscount).Add(orderDiscount)
		taxSum = taxSum.Add(tax)
		quoted = append(quoted, QuotedLine{OrderItemID: item.ID(), Quantity: line.Quantity, Amount: amount})
	}

	quote.Breakdown = refund.Breakdown{Base: baseSum, Discount: discountSum, Tax: taxSum}
	if includeShipping {
		quote.Breakdown.Shipping = o.Shipping()
		quoted[0].Amount = quoted[0].Amount.Add(o.Shipping())
	}

	total, err := quote.Breakdown.Total()
	if err != nil {
		return RefundQuote{}, err
	}
	quote.Total = total
	quote.Lines = quoted

	if sum := sumLines(quoted); !sum.Equal(total) {
		return RefundQuote{}, errs.NewAmountMismatchError("refund quote", total, sum)
	}
	return quote, nil
}

// lineShares splits amount over the order lines by net amount, rounding on
// the running sum so that the shares add up to amount.
func lineShares(o *order.Order, amount kernel.Money) map[kernel.UUID]kernel.Money {
	var (
		shares    = make(map[kernel.UUID]kernel.Money, len(o.Items()))
		running   kernel.Money
		allocated kernel.Money
	)
	for _, item := range o.Items() {
		running = running.Add(item.LineTotal())
		upTo := amount.Share(running, o.Subtotal())
		// running never decreases, so neither does upTo.
		share, _ := upTo.Sub(allocated)
		shares[item.ID()] = share
		allocated = allocated.Add(share)
	}
	return shares
}

// unitSlice is the part of amount that falls on units from+1..to out of total.
func unitSlice(amount kernel.Money, from, to, total int) (kernel.Money, error) {
	return amount.Fraction(to, total).Sub(amount.Fraction(from, total))
}

func sumLines(lines []QuotedLine) kernel.Money {
	sum := kernel.Money{}
	for _, line := range lines {
		sum = sum.Add(line.Amount)
	}
	return sum
}
