// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// An order is stored in the orders table with its lines in order_items; the
// status history is read back from the status ledger.
package orderrepo

import (
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Amounts are stored as numeric(18,2), the status by name.
type OrderDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index"`
	Status               string    `gorm:"type:varchar(32);not null;index"`
	PaymentMethod        string    `gorm:"not null"`
	PaymentReference     string
	ShippingAddress      string          `gorm:"not null"`
	BillingAddress       string          `gorm:"not null"`
	Subtotal             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Discount             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Tax                  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Shipping             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Total                decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CancellationPolicyID *uuid.UUID      `gorm:"type:uuid"`
	ReturnPolicyID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt            time.Time       `gorm:"autoCreateTime:false;not null"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime:false;not null"`
	DeletedAt            gorm.DeletedAt  `gorm:"index"`
	Version              int64           `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is an order line. Position keeps the lines in purchase order.
type ItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Discount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its rows. version is the value the
// row will carry after the write.
func fromDomain(o *order.Order, version int64) (OrderDTO, []ItemDTO) {
	dto := OrderDTO{
		ID:                   o.ID().Bytes(),
		UserID:               o.UserID().Bytes(),
		Status:               o.Status().String(),
		PaymentMethod:        o.PaymentMethod(),
		PaymentReference:     o.PaymentReference(),
		ShippingAddress:      o.ShippingAddress(),
		BillingAddress:       o.BillingAddress(),
		Subtotal:             o.Subtotal().Decimal(),
		Discount:             o.Discount().Decimal(),
		Tax:                  o.Tax().Decimal(),
		Shipping:             o.Shipping().Decimal(),
		Total:                o.Total().Decimal(),
		CancellationPolicyID: rawID(o.CancellationPolicyID()),
		ReturnPolicyID:       rawID(o.ReturnPolicyID()),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
		Version:              version,
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			ID:          item.ID().Bytes(),
			OrderID:     dto.ID,
			Position:    i,
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Decimal(),
			Quantity:    item.Quantity(),
			Discount:    item.Discount().Decimal(),
		})
	}

	return dto, items
}

// toDomain rebuilds the aggregate via RestoreOrder, which re-checks the stored totals.
func toDomain(dto OrderDTO, itemDTOs []ItemDTO, history []ledger.Entry) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	status, err := lifecycle.ParseOrderStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	cancellationPolicyID, err := domainID(dto.CancellationPolicyID)
	if err != nil {
		return nil, err
	}
	returnPolicyID, err := domainID(dto.ReturnPolicyID)
	if err != nil {
		return nil, err
	}

	amounts, err := moneys(dto.Subtotal, dto.Discount, dto.Tax, dto.Shipping, dto.Total)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:     id,
		UserID: userID,
		Items:  items,
		Checkout: order.Checkout{
			PaymentMethod:        dto.PaymentMethod,
			ShippingAddress:      dto.ShippingAddress,
			BillingAddress:       dto.BillingAddress,
			Discount:             amounts[1],
			Tax:                  amounts[2],
			Shipping:             amounts[3],
			CancellationPolicyID: cancellationPolicyID,
			ReturnPolicyID:       returnPolicyID,
		},
		Subtotal:         amounts[0],
		Total:            amounts[4],
		Status:           status,
		PaymentReference: dto.PaymentReference,
		History:          history,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
		Version:          dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	amounts, err := moneys(dto.UnitPrice, dto.Discount)
	if err != nil {
		return nil, err
	}
	return order.NewItem(id, productID, dto.ProductName, amounts[0], dto.Quantity, amounts[1])
}

func moneys(values ...decimal.Decimal) ([]kernel.Money, error) {
	result := make([]kernel.Money, 0, len(values))
	var errList []error
	for _, v := range values {
		m, err := kernel.NewMoney(v)
		errList = append(errList, err)
		result = append(result, m)
	}
	return result, errors.Join(errList...)
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
