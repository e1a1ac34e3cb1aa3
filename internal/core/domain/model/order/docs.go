// Package order provides the Order aggregate root of the post-purchase domain.
//
// An Order owns its line items, its monetary breakdown and its status history.
// Items and totals are fixed at creation; afterwards the order only moves
// through the order lifecycle:
//
//	Pending -> Confirmed -> Packed -> Shipped -> Delivered -> Returned
//	   (any status before Delivered may move to Cancelled)
//
// Key business rules:
//   - An order has at least one item and every item has a quantity of at least 1
//   - subtotal = Σ(unit price · quantity − item discount)
//   - total = subtotal − discount + tax + shipping, and no amount is negative
//   - Changing to the current status is a no-op and records nothing
//   - Every other change is checked against the order graph and recorded in the ledger
package order
