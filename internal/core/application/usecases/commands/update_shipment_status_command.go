package commands

import (
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/shipment"
	"postpurchase/internal/pkg/guard"
)

var ErrUpdateShipmentStatusCommandIsNotConstructed = errors.New(
	"UpdateShipmentStatusCommand must be created via NewUpdateShipmentStatusCommand constructor",
)

type UpdateShipmentStatusCommand struct { //nolint:recvcheck //using for validation
	shipmentID          kernel.UUID
	status              shipment.Status
	actor               string
	estimatedDeliveryAt *time.Time

	guard guard.ConstructorGuard
}

func NewUpdateShipmentStatusCommand(
	shipmentID kernel.UUID,
	status shipment.Status,
	actor string,
	estimatedDeliveryAt *time.Time,
) (UpdateShipmentStatusCommand, error) {
	if err := errors.Join(shipmentID.Validate(), status.Validate(), requireActor("actor", actor)); err != nil {
		return UpdateShipmentStatusCommand{}, err
	}

	return UpdateShipmentStatusCommand{
		shipmentID:          shipmentID,
		status:              status,
		actor:               actor,
		estimatedDeliveryAt: estimatedDeliveryAt,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateShipmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentStatusCommandIsNotConstructed)
}

func (c UpdateShipmentStatusCommand) ShipmentID() kernel.UUID         { return c.shipmentID }
func (c UpdateShipmentStatusCommand) Status() shipment.Status         { return c.status }
func (c UpdateShipmentStatusCommand) Actor() string                   { return c.actor }
func (c UpdateShipmentStatusCommand) EstimatedDeliveryAt() *time.Time { return c.estimatedDeliveryAt }
