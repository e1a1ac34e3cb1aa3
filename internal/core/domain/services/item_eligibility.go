package services

import (
	"errors"
	"fmt"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/pkg/errs"
)

// ErrActiveRequestExists is the cause reported when an order item already has a Pending
// cancellation or return.
var ErrActiveRequestExists = errors.New("order item has an active request")

// Line is a quantity of one order item.
type Line struct {
	OrderItemID kernel.UUID
	Quantity    int
}

type requestKind int

const (
	cancellationRequest requestKind = iota + 1
	returnRequest
)

type claim struct {
	requestID kernel.UUID
	kind      requestKind
	active    bool
	approved  bool
	lines     []Line
}

// ItemEligibility computes, per order item,
//
//	remaining = purchased − Σ quantity of Pending or Approved requests
//
// over all non-deleted cancellations and returns of an order.
type ItemEligibility struct {
	order  *order.Order
	claims []claim
}

func NewItemEligibility(
	o *order.Order,
	cancellations []*cancellation.Cancellation,
	rets []*returns.Return,
) ItemEligibility {
	claims := make([]claim, 0, len(cancellations)+len(rets))
	for _, c := range cancellations {
		if c.IsDeleted() || c.Status() == cancellation.Rejected {
			continue
		}
		lines := make([]Line, 0, len(c.Items()))
		for _, item := range c.Items() {
			lines = append(lines, Line{OrderItemID: item.OrderItemID(), Quantity: item.Quantity()})
		}
		claims = append(claims, claim{
			requestID: c.ID(),
			kind:      cancellationRequest,
			active:    c.IsActive(),
			approved:  c.Status() == cancellation.Approved,
			lines:     lines,
		})
	}
	for _, r := range rets {
		if r.IsDeleted() || r.Status() == returns.Rejected {
			continue
		}
		lines := make([]Line, 0, len(r.Items()))
		for _, item := range r.Items() {
			lines = append(lines, Line{OrderItemID: item.OrderItemID(), Quantity: item.Quantity()})
		}
		claims = append(claims, claim{
			requestID: r.ID(),
			kind:      returnRequest,
			active:    r.IsActive(),
			approved:  r.Status() == returns.Approved,
			lines:     lines,
		})
	}
	return ItemEligibility{order: o, claims: claims}
}

// Excluding ignores the given request, which is how an edited request is
// checked against everything else.
func (e ItemEligibility) Excluding(requestID kernel.UUID) ItemEligibility {
	claims := make([]claim, 0, len(e.claims))
	for _, c := range e.claims {
		if !c.requestID.IsEqual(requestID) {
			claims = append(claims, c)
		}
	}
	return ItemEligibility{order: e.order, claims: claims}
}

// Remaining returns the quantity of the order item that is still free.
func (e ItemEligibility) Remaining(orderItemID kernel.UUID) (int, error) {
	item, err := e.order.Item(orderItemID)
	if err != nil {
		return 0, err
	}
	return item.Quantity() - e.claimed(orderItemID, func(claim) bool { return true }), nil
}

// Check validates a requested item set against the order.
func (e ItemEligibility) Check(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.OrderItemID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items are invalid",
				fmt.Errorf("order item %s appears twice", line.OrderItemID))
		}
		seen[line.OrderItemID] = struct{}{}

		remaining, err := e.Remaining(line.OrderItemID)
		if err != nil {
			return err
		}
		if e.hasActive(line.OrderItemID) {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("order item %s", line.OrderItemID), ErrActiveRequestExists)
		}
		if line.Quantity < 1 || line.Quantity > remaining {
			return errs.NewValueIsOutOfRangeError("quantity", line.Quantity, 1, remaining)
		}
	}
	return nil
}

// CoversRemainder reports whether lines take every remaining unit of every
// order item, i.e. the request would leave nothing of the order.
func (e ItemEligibility) CoversRemainder(lines []Line) bool {
	requested := make(map[kernel.UUID]int, len(lines))
	for _, line := range lines {
		requested[line.OrderItemID] += line.Quantity
	}
	for _, item := range e.order.Items() {
		remaining, _ := e.Remaining(item.ID())
		if requested[item.ID()] != remaining {
			return false
		}
	}
	return true
}

// ApprovedQuantities returns, per order item, the units covered by approved
// cancellations and returns. Those units are already priced into refunds.
func (e ItemEligibility) ApprovedQuantities() map[kernel.UUID]int {
	approved := make(map[kernel.UUID]int, len(e.order.Items()))
	for _, item := range e.order.Items() {
		if n := e.claimed(item.ID(), func(c claim) bool { return c.approved }); n > 0 {
			approved[item.ID()] = n
		}
	}
	return approved
}

// CompletesCancellation reports whether approving lines on top of the already
// approved cancellations would cancel every unit of the order.
func (e ItemEligibility) CompletesCancellation(lines []Line) bool {
	requested := make(map[kernel.UUID]int, len(lines))
	for _, line := range lines {
		requested[line.OrderItemID] += line.Quantity
	}
	for _, item := range e.order.Items() {
		approved := e.claimed(item.ID(), func(c claim) bool { return c.approved && c.kind == cancellationRequest })
		if approved+requested[item.ID()] < item.Quantity() {
			return false
		}
	}
	return true
}

// FullyCancelled reports whether approved cancellations cover every unit.
func (e ItemEligibility) FullyCancelled() bool {
	return e.fullyCovered(func(c claim) bool { return c.approved && c.kind == cancellationRequest })
}

// FullyReturned reports whether approved cancellations and returns together
// cover every unit and at least one return is approved.
func (e ItemEligibility) FullyReturned() bool {
	anyReturn := false
	for _, c := range e.claims {
		if c.approved && c.kind == returnRequest {
			anyReturn = true
			break
		}
	}
	return anyReturn && e.fullyCovered(func(c claim) bool { return c.approved })
}

func (e ItemEligibility) fullyCovered(match func(claim) bool) bool {
	for _, item := range e.order.Items() {
		if e.claimed(item.ID(), match) < item.Quantity() {
			return false
		}
	}
	return true
}

func (e ItemEligibility) claimed(orderItemID kernel.UUID, match func(claim) bool) int {
	total := 0
	for _, c := range e.claims {
		if !match(c) {
			continue
		}
		for _, line := range c.lines {
			if line.OrderItemID.IsEqual(orderItemID) {
				total += line.Quantity
			}
		}
	}
	return total
}

func (e ItemEligibility) hasActive(orderItemID kernel.UUID) bool {
	return e.claimed(orderItemID, func(c claim) bool { return c.active }) > 0
}
