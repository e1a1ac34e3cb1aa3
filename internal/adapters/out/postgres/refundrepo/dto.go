// Package refundrepo persists refunds in the refunds and refund_items tables.
package refundrepo

import (
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundDTO stores the amount breakdown next to the total; RestoreRefund
// rejects rows where they disagree.
type RefundDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	CancellationID       *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	ReturnID             *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Base                 decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Tax                  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Discount             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Shipping             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Total                decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PaymentMethod        string          `gorm:"not null"`
	Status               string          `gorm:"type:varchar(32);not null;index:idx_refunds_status_updated,priority:1"`
	TransactionReference string
	FailureReason        string
	CompletedAt          *time.Time
	CreatedAt            time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime:false;not null;index:idx_refunds_status_updated,priority:2"`
	Version              int64     `gorm:"not null"`
}

func (RefundDTO) TableName() string {
	return "refunds"
}

type ItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RefundID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Position    int             `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (ItemDTO) TableName() string {
	return "refund_items"
}

func fromDomain(r *refund.Refund, version int64) (RefundDTO, []ItemDTO) {
	b := r.Breakdown()
	dto := RefundDTO{
		ID:                   r.ID().Bytes(),
		OrderID:              r.OrderID().Bytes(),
		CancellationID:       rawID(r.Source().CancellationID),
		ReturnID:             rawID(r.Source().ReturnID),
		Base:                 b.Base.Decimal(),
		Tax:                  b.Tax.Decimal(),
		Discount:             b.Discount.Decimal(),
		Shipping:             b.Shipping.Decimal(),
		Total:                r.Total().Decimal(),
		PaymentMethod:        r.PaymentMethod(),
		Status:               r.Status().String(),
		TransactionReference: r.TransactionReference(),
		FailureReason:        r.FailureReason(),
		CompletedAt:          r.CompletedAt(),
		CreatedAt:            r.CreatedAt(),
		UpdatedAt:            r.UpdatedAt(),
		Version:              version,
	}

	items := make([]ItemDTO, 0, len(r.Items()))
	for i, item := range r.Items() {
		items = append(items, ItemDTO{
			ID:          item.ID().Bytes(),
			RefundID:    dto.ID,
			OrderItemID: item.OrderItemID().Bytes(),
			Position:    i,
			Quantity:    item.Quantity(),
			Amount:      item.Amount().Decimal(),
		})
	}
	return dto, items
}

func toDomain(dto RefundDTO, itemDTOs []ItemDTO) (*refund.Refund, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := lifecycle.ParseRefundStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	cancellationID, err := domainID(dto.CancellationID)
	if err != nil {
		return nil, err
	}
	returnID, err := domainID(dto.ReturnID)
	if err != nil {
		return nil, err
	}

	base, baseErr := kernel.NewMoney(dto.Base)
	tax, taxErr := kernel.NewMoney(dto.Tax)
	discount, discountErr := kernel.NewMoney(dto.Discount)
	shipping, shippingErr := kernel.NewMoney(dto.Shipping)
	total, totalErr := kernel.NewMoney(dto.Total)
	if err = errors.Join(baseErr, taxErr, discountErr, shippingErr, totalErr); err != nil {
		return nil, err
	}

	items := make([]*refund.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return refund.RestoreRefund(refund.Snapshot{
		ID:      id,
		OrderID: orderID,
		Source:  refund.Source{CancellationID: cancellationID, ReturnID: returnID},
		Breakdown: refund.Breakdown{
			Base:     base,
			Tax:      tax,
			Discount: discount,
			Shipping: shipping,
		},
		Total:                total,
		PaymentMethod:        dto.PaymentMethod,
		Items:                items,
		Status:               status,
		TransactionReference: dto.TransactionReference,
		FailureReason:        dto.FailureReason,
		CompletedAt:          dto.CompletedAt,
		CreatedAt:            dto.CreatedAt,
		UpdatedAt:            dto.UpdatedAt,
		Version:              dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (*refund.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderItemID, err := kernel.UUIDFromBytes(dto.OrderItemID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}
	return refund.NewItem(id, orderItemID, dto.Quantity, amount)
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
