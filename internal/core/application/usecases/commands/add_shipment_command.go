package commands

import (
	"errors"
	"strings"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/errs"
	"postpurchase/internal/pkg/guard"
)

var ErrAddShipmentCommandIsNotConstructed = errors.New(
	"AddShipmentCommand must be created via NewAddShipmentCommand constructor",
)

// AddShipmentCommand records a carrier handoff of some of an order's items.
type AddShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID          kernel.UUID
	orderID             kernel.UUID
	carrier             string
	trackingNumber      string
	lines               []services.Line
	estimatedDeliveryAt *time.Time

	guard guard.ConstructorGuard
}

func NewAddShipmentCommand(
	shipmentID, orderID kernel.UUID,
	carrier, trackingNumber string,
	lines []services.Line,
	estimatedDeliveryAt *time.Time,
) (AddShipmentCommand, error) {
	var carrierErr, trackingErr error
	if strings.TrimSpace(carrier) == "" {
		carrierErr = errs.NewValueIsRequiredError("carrier")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		trackingErr = errs.NewValueIsRequiredError("trackingNumber")
	}
	if err := errors.Join(shipmentID.Validate(), orderID.Validate(), carrierErr, trackingErr, validateLines(lines)); err != nil {
		return AddShipmentCommand{}, err
	}

	return AddShipmentCommand{
		shipmentID:          shipmentID,
		orderID:             orderID,
		carrier:             carrier,
		trackingNumber:      trackingNumber,
		lines:               append([]services.Line(nil), lines...),
		estimatedDeliveryAt: estimatedDeliveryAt,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c AddShipmentCommand) Validate() error {
	return c.guard.Validate(ErrAddShipmentCommandIsNotConstructed)
}

func (c AddShipmentCommand) ShipmentID() kernel.UUID         { return c.shipmentID }
func (c AddShipmentCommand) OrderID() kernel.UUID            { return c.orderID }
func (c AddShipmentCommand) Carrier() string                 { return c.carrier }
func (c AddShipmentCommand) TrackingNumber() string          { return c.trackingNumber }
func (c AddShipmentCommand) Lines() []services.Line          { return append([]services.Line(nil), c.lines...) }
func (c AddShipmentCommand) EstimatedDeliveryAt() *time.Time { return c.estimatedDeliveryAt }
