// Package cancellationrepo persists cancellation requests in the cancellations
// and cancellation_items tables.
package cancellationrepo

import (
	"time"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CancellationDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ReasonID         uuid.UUID `gorm:"type:uuid;not null"`
	Status           string    `gorm:"type:varchar(32);not null;index"`
	IsPartial        bool      `gorm:"not null"`
	Remarks          string
	RequestedBy      string    `gorm:"not null"`
	RequestedAt      time.Time `gorm:"not null"`
	ProcessedBy      string
	ProcessedAt      *time.Time
	DecisionRemarks  string
	RefundableAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime:false;not null"`
	// DeletedAt is written by the domain when a request is withdrawn. Withdrawn
	// requests stay readable, so the gorm soft delete scope is not used.
	DeletedAt *time.Time `gorm:"index"`
	Version   int64      `gorm:"not null"`
}

func (CancellationDTO) TableName() string {
	return "cancellations"
}

type ItemDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CancellationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID      uuid.UUID       `gorm:"type:uuid;not null"`
	Position         int             `gorm:"not null"`
	Quantity         int             `gorm:"not null"`
	RefundableAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (ItemDTO) TableName() string {
	return "cancellation_items"
}

func fromDomain(c *cancellation.Cancellation, version int64) (CancellationDTO, []ItemDTO) {
	dto := CancellationDTO{
		ID:               c.ID().Bytes(),
		OrderID:          c.OrderID().Bytes(),
		ReasonID:         c.ReasonID().Bytes(),
		Status:           c.Status().String(),
		IsPartial:        c.IsPartial(),
		Remarks:          c.Remarks(),
		RequestedBy:      c.RequestedBy(),
		RequestedAt:      c.RequestedAt(),
		ProcessedBy:      c.ProcessedBy(),
		ProcessedAt:      c.ProcessedAt(),
		DecisionRemarks:  c.DecisionRemarks(),
		RefundableAmount: c.RefundableAmount().Decimal(),
		UpdatedAt:        c.UpdatedAt(),
		DeletedAt:        c.DeletedAt(),
		Version:          version,
	}

	items := make([]ItemDTO, 0, len(c.Items()))
	for i, item := range c.Items() {
		items = append(items, ItemDTO{
			ID:               item.ID().Bytes(),
			CancellationID:   dto.ID,
			OrderItemID:      item.OrderItemID().Bytes(),
			Position:         i,
			Quantity:         item.Quantity(),
			RefundableAmount: item.RefundableAmount().Decimal(),
		})
	}
	return dto, items
}

func toDomain(dto CancellationDTO, itemDTOs []ItemDTO) (*cancellation.Cancellation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	reasonID, err := kernel.UUIDFromBytes(dto.ReasonID[:])
	if err != nil {
		return nil, err
	}
	status, err := lifecycle.ParseCancellationStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.RefundableAmount)
	if err != nil {
		return nil, err
	}

	items := make([]*cancellation.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return cancellation.RestoreCancellation(cancellation.Snapshot{
		ID:               id,
		OrderID:          orderID,
		ReasonID:         reasonID,
		Status:           status,
		IsPartial:        dto.IsPartial,
		Remarks:          dto.Remarks,
		Items:            items,
		RequestedBy:      dto.RequestedBy,
		RequestedAt:      dto.RequestedAt,
		ProcessedBy:      dto.ProcessedBy,
		ProcessedAt:      dto.ProcessedAt,
		DecisionRemarks:  dto.DecisionRemarks,
		RefundableAmount: amount,
		UpdatedAt:        dto.UpdatedAt,
		DeletedAt:        dto.DeletedAt,
		Version:          dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (*cancellation.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderItemID, err := kernel.UUIDFromBytes(dto.OrderItemID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.RefundableAmount)
	if err != nil {
		return nil, err
	}
	return cancellation.RestoreItem(id, orderItemID, dto.Quantity, amount)
}
