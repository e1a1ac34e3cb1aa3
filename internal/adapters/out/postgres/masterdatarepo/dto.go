// Package masterdatarepo reads reasons and policies from the reasons and
// policies tables. The service never writes them during normal operation;
// Save* exist for provisioning.
package masterdatarepo

import (
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"

	"github.com/google/uuid"
)

type ReasonDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type        string    `gorm:"type:varchar(16);not null;index"`
	Code        string    `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"not null"`
}

func (ReasonDTO) TableName() string {
	return "reasons"
}

// PolicyDTO stores the window in seconds; zero means unlimited.
type PolicyDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          string    `gorm:"type:varchar(16);not null;index"`
	Name          string    `gorm:"not null"`
	WindowSeconds int64     `gorm:"not null"`
	IsActive      bool      `gorm:"not null"`
}

func (PolicyDTO) TableName() string {
	return "policies"
}

const (
	cancellationPolicy = "Cancellation"
	returnPolicy       = "Return"
)

func reasonFromDomain(r masterdata.Reason) ReasonDTO {
	return ReasonDTO{
		ID:          r.ID.Bytes(),
		Type:        string(r.Type),
		Code:        r.Code,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

func reasonToDomain(dto ReasonDTO) (masterdata.Reason, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return masterdata.Reason{}, err
	}
	return masterdata.Reason{
		ID:          id,
		Type:        masterdata.ReasonType(dto.Type),
		Code:        dto.Code,
		Description: dto.Description,
		IsActive:    dto.IsActive,
	}, nil
}

func policyFromDomain(kind string, p masterdata.Policy) PolicyDTO {
	return PolicyDTO{
		ID:            p.ID.Bytes(),
		Kind:          kind,
		Name:          p.Name,
		WindowSeconds: int64(p.Window / time.Second),
		IsActive:      p.IsActive,
	}
}

func policyToDomain(dto PolicyDTO) (masterdata.Policy, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return masterdata.Policy{}, err
	}
	return masterdata.Policy{
		ID:       id,
		Name:     dto.Name,
		Window:   time.Duration(dto.WindowSeconds) * time.Second,
		IsActive: dto.IsActive,
	}, nil
}
