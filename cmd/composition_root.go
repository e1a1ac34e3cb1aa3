package cmd

import (
	"fmt"
	"log/slog"

	"postpurchase/internal/adapters/out/paymentgateway"
	"postpurchase/internal/adapters/out/postgres"
	"postpurchase/internal/adapters/out/postgres/masterdatarepo"
	"postpurchase/internal/adapters/out/stripegateway"
	"postpurchase/internal/core/application/usecases/commands"
	"postpurchase/internal/core/application/usecases/queries"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	masterData ports.MasterDataProvider
	gateway    ports.PaymentGateway
	calculator services.RefundCalculator
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	gateway, err := newPaymentGateway(config, logger)
	if err != nil {
		return CompositionRoot{}, err
	}
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		masterData: masterdatarepo.NewGormMasterDataRepository(gormDB),
		gateway:    gateway,
		calculator: services.NewRefundCalculator(),
	}, nil
}

func newPaymentGateway(config Config, logger *slog.Logger) (ports.PaymentGateway, error) {
	switch config.PaymentProvider {
	case PaymentProviderStripe:
		return stripegateway.NewGateway(stripegateway.Config{
			APIKey:   config.StripeAPIKey,
			Currency: config.StripeCurrency,
			Logger:   logger,
		})
	case PaymentProviderHTTP, "":
		return paymentgateway.NewClient(paymentgateway.Config{
			BaseURL:    config.PaymentGatewayURL,
			Token:      config.PaymentGatewayToken,
			Timeout:    config.PaymentGatewayTimeout,
			MaxRetries: config.PaymentGatewayMaxRetries,
		}, paymentgateway.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown payment provider %q", config.PaymentProvider)
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) requestUoWFactory() commands.RequestUoWFactory {
	return FuncRequestUoWFactory(func() commands.RequestUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) refundUoWFactory() commands.RefundUoWFactory {
	return FuncRefundUoWFactory(func() commands.RefundUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateInitiateOrderPaymentCommandHandler() commands.InitiateOrderPaymentCommandHandler {
	return commands.NewInitiateOrderPaymentCommandHandler(c.orderUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateRequestCancellationCommandHandler() commands.RequestCancellationCommandHandler {
	return commands.NewRequestCancellationCommandHandler(c.requestUoWFactory(), c.masterData)
}

func (c *CompositionRoot) CreateUpdateCancellationCommandHandler() commands.UpdateCancellationCommandHandler {
	return commands.NewUpdateCancellationCommandHandler(c.requestUoWFactory(), c.masterData)
}

func (c *CompositionRoot) CreateApproveCancellationCommandHandler() commands.ApproveCancellationCommandHandler {
	return commands.NewApproveCancellationCommandHandler(c.requestUoWFactory(), c.calculator)
}

func (c *CompositionRoot) CreateRejectCancellationCommandHandler() commands.RejectCancellationCommandHandler {
	return commands.NewRejectCancellationCommandHandler(c.requestUoWFactory())
}

func (c *CompositionRoot) CreateDeleteCancellationCommandHandler() commands.DeleteCancellationCommandHandler {
	return commands.NewDeleteCancellationCommandHandler(c.requestUoWFactory())
}

func (c *CompositionRoot) CreateRequestReturnCommandHandler() commands.RequestReturnCommandHandler {
	return commands.NewRequestReturnCommandHandler(c.requestUoWFactory(), c.masterData)
}

func (c *CompositionRoot) CreateUpdateReturnCommandHandler() commands.UpdateReturnCommandHandler {
	return commands.NewUpdateReturnCommandHandler(c.requestUoWFactory(), c.masterData)
}

func (c *CompositionRoot) CreateApproveReturnCommandHandler() commands.ApproveReturnCommandHandler {
	return commands.NewApproveReturnCommandHandler(c.requestUoWFactory(), c.calculator)
}

func (c *CompositionRoot) CreateRejectReturnCommandHandler() commands.RejectReturnCommandHandler {
	return commands.NewRejectReturnCommandHandler(c.requestUoWFactory())
}

func (c *CompositionRoot) CreateDeleteReturnCommandHandler() commands.DeleteReturnCommandHandler {
	return commands.NewDeleteReturnCommandHandler(c.requestUoWFactory())
}

func (c *CompositionRoot) CreateUpdateRefundStatusCommandHandler() commands.UpdateRefundStatusCommandHandler {
	return commands.NewUpdateRefundStatusCommandHandler(c.refundUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateReconcileRefundsCommandHandler() *commands.ReconcileRefundsCommandHandler {
	h := commands.NewReconcileRefundsCommandHandler(c.refundUoWFactory(), c.gateway)
	return &h
}

func (c *CompositionRoot) CreateAddShipmentCommandHandler() commands.AddShipmentCommandHandler {
	return commands.NewAddShipmentCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateUpdateShipmentStatusCommandHandler() commands.UpdateShipmentStatusCommandHandler {
	return commands.NewUpdateShipmentStatusCommandHandler(c.shipmentUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderDetailsQueryHandler() queries.GetOrderDetailsQueryHandler {
	return queries.NewGetOrderDetailsQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetPendingRequestsQueryHandler() queries.GetPendingRequestsQueryHandler {
	return queries.NewGetPendingRequestsQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRequestUoWFactory func() commands.RequestUoW

func (f FuncRequestUoWFactory) Create() commands.RequestUoW {
	return f()
}

type FuncRefundUoWFactory func() commands.RefundUoW

func (f FuncRefundUoWFactory) Create() commands.RefundUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}
