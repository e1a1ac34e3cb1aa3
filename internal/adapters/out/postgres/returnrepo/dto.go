// Package returnrepo persists return requests in the returns and return_items
// tables.
package returnrepo

import (
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/core/domain/model/returns"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReturnDTO struct {
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

func (ReturnDTO) TableName() string {
	return "returns"
}

type ItemDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReturnID         uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID      uuid.UUID `gorm:"type:uuid;not null"`
	Position         int       `gorm:"not null"`
	Quantity         int       `gorm:"not null"`
	Remarks          string
	RefundableAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (ItemDTO) TableName() string {
	return "return_items"
}

func fromDomain(r *returns.Return, version int64) (ReturnDTO, []ItemDTO) {
	dto := ReturnDTO{
		ID:               r.ID().Bytes(),
		OrderID:          r.OrderID().Bytes(),
		ReasonID:         r.ReasonID().Bytes(),
		Status:           r.Status().String(),
		IsPartial:        r.IsPartial(),
		Remarks:          r.Remarks(),
		RequestedBy:      r.RequestedBy(),
		RequestedAt:      r.RequestedAt(),
		ProcessedBy:      r.ProcessedBy(),
		ProcessedAt:      r.ProcessedAt(),
		DecisionRemarks:  r.DecisionRemarks(),
		RefundableAmount: r.RefundableAmount().Decimal(),
		UpdatedAt:        r.UpdatedAt(),
		DeletedAt:        r.DeletedAt(),
		Version:          version,
	}

	items := make([]ItemDTO, 0, len(r.Items()))
	for i, item := range r.Items() {
		items = append(items, ItemDTO{
			ID:               item.ID().Bytes(),
			ReturnID:         dto.ID,
			OrderItemID:      item.OrderItemID().Bytes(),
			Position:         i,
			Quantity:         item.Quantity(),
			Remarks:          item.Remarks(),
			RefundableAmount: item.RefundableAmount().Decimal(),
		})
	}
	return dto, items
}

func toDomain(dto ReturnDTO, itemDTOs []ItemDTO) (*returns.Return, error) {
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
	status, err := lifecycle.ParseReturnStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.RefundableAmount)
	if err != nil {
		return nil, err
	}

	items := make([]*returns.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return returns.RestoreReturn(returns.Snapshot{
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

func itemToDomain(dto ItemDTO) (*returns.Item, error) {
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
	return returns.RestoreItem(id, orderItemID, dto.Quantity, dto.Remarks, amount)
}
