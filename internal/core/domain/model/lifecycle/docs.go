// Package lifecycle owns the status machines of the post-purchase domain.
//
// Every lifecycle (Order, Cancellation, Return, Refund, Shipment) has its own
// int-backed status type and a Graph describing the legal moves between
// statuses. Graphs are built once when the package is initialised and expose
// read methods only, so every workflow consults the same immutable table.
//
//	Order:        Pending ─> Confirmed ─> Packed ─> Shipped ─> Delivered ─> Returned
//	                 └──────────┴───────────┴─────────┴──> Cancelled
//
//	Shipment:     Pending ─> Shipped ─> InTransit ─> OutForDelivery ─> Delivered
//	                 └──────────┴───────────┴──> Cancelled    └──> Returned
//
//	Refund:       Pending ─> Processing ─> Completed
//	                 │            └──> Failed ─> Completed
//	                 └──> Cancelled
//
//	Cancellation, Return: Pending ─> Approved | Rejected
//
// Statuses without outgoing edges are terminal.
package lifecycle
