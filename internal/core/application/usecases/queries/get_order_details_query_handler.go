package queries

import (
	"context"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/model/shipment"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// GetOrderDetailsQueryHandler composes the order read model from the
// repositories of a unit of work that is never begun, so every read goes
// straight to the database. The order is loaded first; its requests, refunds,
// shipments and ledger entries are then loaded concurrently.
type GetOrderDetailsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderDetailsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderDetailsQueryHandler {
	return GetOrderDetailsQueryHandler{uowFactory: uowFactory}
}

func (h GetOrderDetailsQueryHandler) Handle(ctx context.Context, query GetOrderDetailsQuery) (OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return OrderDetails{}, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderDetails{}, err
	}

	var (
		cs        []*cancellation.Cancellation
		rs        []*returns.Return
		refunds   []*refund.Refund
		shipments []*shipment.Shipment
		entries   []ledger.Entry

		cancellationRepo = uow.CancellationRepository()
		returnRepo       = uow.ReturnRepository()
		refundRepo       = uow.RefundRepository()
		shipmentRepo     = uow.ShipmentRepository()
		ledgerRepo       = uow.LedgerRepository()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cs, err = cancellationRepo.ListByOrder(gctx, o.ID())
		return err
	})
	g.Go(func() (err error) {
		rs, err = returnRepo.ListByOrder(gctx, o.ID())
		return err
	})
	g.Go(func() (err error) {
		refunds, err = refundRepo.ListByOrder(gctx, o.ID())
		return err
	})
	g.Go(func() (err error) {
		shipments, err = shipmentRepo.ListByOrder(gctx, o.ID())
		return err
	})
	g.Go(func() (err error) {
		entries, err = ledgerRepo.ListByOrder(gctx, o.ID())
		return err
	})
	if err = g.Wait(); err != nil {
		return OrderDetails{}, err
	}

	details := orderDetails(o)
	eligibility := services.NewItemEligibility(o, cs, rs)
	for i := range details.Items {
		remaining, remainingErr := eligibility.Remaining(details.Items[i].ID)
		if remainingErr != nil {
			return OrderDetails{}, remainingErr
		}
		details.Items[i].Remaining = remaining
	}

	details.Timeline = statusChanges(entries)
	for _, c := range cs {
		details.Cancellations = append(details.Cancellations, cancellationDetails(c))
	}
	for _, r := range rs {
		details.Returns = append(details.Returns, returnDetails(r))
	}
	for _, r := range refunds {
		details.Refunds = append(details.Refunds, refundDetails(r))
	}
	for _, s := range shipments {
		details.Shipments = append(details.Shipments, shipmentDetails(s))
	}

	return details, nil
}

func orderDetails(o *order.Order) OrderDetails {
	details := OrderDetails{
		ID:               o.ID(),
		UserID:           o.UserID(),
		Status:           o.Status().String(),
		PaymentMethod:    o.PaymentMethod(),
		PaymentReference: o.PaymentReference(),
		ShippingAddress:  o.ShippingAddress(),
		BillingAddress:   o.BillingAddress(),
		Subtotal:         o.Subtotal(),
		Discount:         o.Discount(),
		Tax:              o.Tax(),
		Shipping:         o.Shipping(),
		Total:            o.Total(),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
		Version:          o.Version(),
		History:          statusChanges(o.History()),
	}
	for _, item := range o.Items() {
		details.Items = append(details.Items, OrderItemDetails{
			ID:          item.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
			Discount:    item.Discount(),
			LineTotal:   item.LineTotal(),
		})
	}
	return details
}

func statusChanges(entries []ledger.Entry) []StatusChange {
	changes := make([]StatusChange, 0, len(entries))
	for _, e := range entries {
		changes = append(changes, StatusChange{
			Lifecycle:   e.Lifecycle().String(),
			AggregateID: e.AggregateID(),
			From:        e.From(),
			To:          e.To(),
			Actor:       e.Actor(),
			Remarks:     e.Remarks(),
			At:          e.At(),
		})
	}
	return changes
}

func cancellationDetails(c *cancellation.Cancellation) RequestDetails {
	details := RequestDetails{
		ID:               c.ID(),
		ReasonID:         c.ReasonID(),
		Status:           c.Status().String(),
		IsPartial:        c.IsPartial(),
		Deleted:          c.IsDeleted(),
		RequestedBy:      c.RequestedBy(),
		RequestedAt:      c.RequestedAt(),
		ProcessedBy:      c.ProcessedBy(),
		ProcessedAt:      c.ProcessedAt(),
		Remarks:          c.Remarks(),
		DecisionRemarks:  c.DecisionRemarks(),
		RefundableAmount: c.RefundableAmount(),
	}
	for _, item := range c.Items() {
		details.Items = append(details.Items, RequestItemDetails{
			OrderItemID:      item.OrderItemID(),
			Quantity:         item.Quantity(),
			RefundableAmount: item.RefundableAmount(),
		})
	}
	return details
}

func returnDetails(r *returns.Return) RequestDetails {
	details := RequestDetails{
		ID:               r.ID(),
		ReasonID:         r.ReasonID(),
		Status:           r.Status().String(),
		IsPartial:        r.IsPartial(),
		Deleted:          r.IsDeleted(),
		RequestedBy:      r.RequestedBy(),
		RequestedAt:      r.RequestedAt(),
		ProcessedBy:      r.ProcessedBy(),
		ProcessedAt:      r.ProcessedAt(),
		Remarks:          r.Remarks(),
		DecisionRemarks:  r.DecisionRemarks(),
		RefundableAmount: r.RefundableAmount(),
	}
	for _, item := range r.Items() {
		details.Items = append(details.Items, RequestItemDetails{
			OrderItemID:      item.OrderItemID(),
			Quantity:         item.Quantity(),
			RefundableAmount: item.RefundableAmount(),
			Remarks:          item.Remarks(),
		})
	}
	return details
}

func refundDetails(r *refund.Refund) RefundDetails {
	b := r.Breakdown()
	return RefundDetails{
		ID:                   r.ID(),
		CancellationID:       r.Source().CancellationID,
		ReturnID:             r.Source().ReturnID,
		Status:               r.Status().String(),
		Base:                 b.Base,
		Discount:             b.Discount,
		Tax:                  b.Tax,
		Shipping:             b.Shipping,
		Total:                r.Total(),
		PaymentMethod:        r.PaymentMethod(),
		TransactionReference: r.TransactionReference(),
		FailureReason:        r.FailureReason(),
		CompletedAt:          r.CompletedAt(),
		CreatedAt:            r.CreatedAt(),
	}
}

func shipmentDetails(s *shipment.Shipment) ShipmentDetails {
	items := make(map[kernel.UUID]int, len(s.Items()))
	for _, item := range s.Items() {
		items[item.OrderItemID()] += item.Quantity()
	}
	return ShipmentDetails{
		ID:                  s.ID(),
		Carrier:             s.Carrier(),
		TrackingNumber:      s.TrackingNumber(),
		Status:              s.Status().String(),
		EstimatedDeliveryAt: s.EstimatedDeliveryAt(),
		DeliveredAt:         s.DeliveredAt(),
		Items:               items,
	}
}
