package lifecycle

import (
	"slices"

	"postpurchase/internal/pkg/errs"
)

// Graph is the adjacency table of one lifecycle. The zero value allows nothing.
type Graph[S Status] struct {
	lifecycle Lifecycle
	states    []S
	edges     map[S][]S
}

func newGraph[S Status](l Lifecycle, states []S, edges map[S][]S) Graph[S] {
	g := Graph[S]{
		lifecycle: l,
		states:    slices.Clone(states),
		edges:     make(map[S][]S, len(states)),
	}
	for _, s := range states {
		g.edges[s] = slices.Clone(edges[s])
	}
	return g
}

var (
	orders = newGraph(Order,
		[]OrderStatus{OrderPending, OrderConfirmed, OrderPacked, OrderShipped, OrderDelivered, OrderCancelled, OrderReturned},
		map[OrderStatus][]OrderStatus{
			OrderPending:   {OrderConfirmed, OrderCancelled},
			OrderConfirmed: {OrderPacked, OrderCancelled},
			OrderPacked:    {OrderShipped, OrderCancelled},
			OrderShipped:   {OrderDelivered, OrderCancelled},
			OrderDelivered: {OrderReturned},
		})

	shipments = newGraph(Shipment,
		[]ShipmentStatus{ShipmentPending, ShipmentShipped, ShipmentInTransit, ShipmentOutForDelivery,
			ShipmentDelivered, ShipmentCancelled, ShipmentReturned},
		map[ShipmentStatus][]ShipmentStatus{
			ShipmentPending:        {ShipmentShipped, ShipmentCancelled},
			ShipmentShipped:        {ShipmentInTransit, ShipmentCancelled},
			ShipmentInTransit:      {ShipmentOutForDelivery, ShipmentCancelled},
			ShipmentOutForDelivery: {ShipmentDelivered, ShipmentReturned},
		})

	refunds = newGraph(Refund,
		[]RefundStatus{RefundPending, RefundProcessing, RefundCompleted, RefundFailed, RefundCancelled},
		map[RefundStatus][]RefundStatus{
			RefundPending:    {RefundProcessing, RefundCancelled},
			RefundProcessing: {RefundCompleted, RefundFailed},
			RefundFailed:     {RefundCompleted},
		})

	cancellations = newGraph(Cancellation,
		[]CancellationStatus{CancellationPending, CancellationApproved, CancellationRejected},
		map[CancellationStatus][]CancellationStatus{
			CancellationPending: {CancellationApproved, CancellationRejected},
		})

	returns = newGraph(Return,
		[]ReturnStatus{ReturnPending, ReturnApproved, ReturnRejected},
		map[ReturnStatus][]ReturnStatus{
			ReturnPending: {ReturnApproved, ReturnRejected},
		})
)

func Orders() Graph[OrderStatus]               { return orders }
func Shipments() Graph[ShipmentStatus]         { return shipments }
func Refunds() Graph[RefundStatus]             { return refunds }
func Cancellations() Graph[CancellationStatus] { return cancellations }
func Returns() Graph[ReturnStatus]             { return returns }

// Lifecycle returns the lifecycle this graph belongs to.
func (g Graph[S]) Lifecycle() Lifecycle {
	return g.lifecycle
}

// IsAllowed reports whether from -> to is an edge of the graph.
func (g Graph[S]) IsAllowed(from, to S) bool {
	return slices.Contains(g.edges[from], to)
}

// Check is IsAllowed returning an *errs.InvalidTransitionError for a rejected move.
func (g Graph[S]) Check(from, to S) error {
	if !g.IsAllowed(from, to) {
		return errs.NewInvalidTransitionError(g.lifecycle.String(), from.String(), to.String())
	}
	return nil
}

// IsTerminal reports whether s is a member of the graph without outgoing edges.
func (g Graph[S]) IsTerminal(s S) bool {
	next, ok := g.edges[s]
	return ok && len(next) == 0
}

// Contains reports whether s is a member of the graph's state set.
func (g Graph[S]) Contains(s S) bool {
	_, ok := g.edges[s]
	return ok
}

// Next returns the statuses reachable from s in one step.
func (g Graph[S]) Next(s S) []S {
	return slices.Clone(g.edges[s])
}

// States returns every member of the state set in declaration order.
func (g Graph[S]) States() []S {
	return slices.Clone(g.states)
}

func (g Graph[S]) isAllowedByName(from, to string) bool {
	var (
		fromState, toState S
		haveFrom, haveTo   bool
	)
	for _, s := range g.states {
		if s.String() == from {
			fromState, haveFrom = s, true
		}
		if s.String() == to {
			toState, haveTo = s, true
		}
	}
	return haveFrom && haveTo && g.IsAllowed(fromState, toState)
}
