// Package ledgerrepo persists the status ledger. Rows are inserted and read,
// never updated or deleted.
package ledgerrepo

import (
	"fmt"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/domain/model/lifecycle"

	"github.com/google/uuid"
)

// EntryDTO is one row of the status_ledger table. from/to are reserved words
// in SQL, hence the column names. Seq orders entries recorded at the same instant.
type EntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int64     `gorm:"autoIncrement;not null"`
	Lifecycle   string    `gorm:"type:varchar(16);not null;index:idx_ledger_aggregate,priority:1"`
	AggregateID uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_aggregate,priority:2"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus  string    `gorm:"type:varchar(32);not null"`
	ToStatus    string    `gorm:"type:varchar(32);not null"`
	Actor       string    `gorm:"not null"`
	Remarks     string
	At          time.Time `gorm:"not null;index"`
}

func (EntryDTO) TableName() string {
	return "status_ledger"
}

func fromDomain(e ledger.Entry) EntryDTO {
	return EntryDTO{
		ID:          e.ID().Bytes(),
		Lifecycle:   e.Lifecycle().String(),
		AggregateID: e.AggregateID().Bytes(),
		OrderID:     e.OrderID().Bytes(),
		FromStatus:  e.From(),
		ToStatus:    e.To(),
		Actor:       e.Actor(),
		Remarks:     e.Remarks(),
		At:          e.At(),
	}
}

func toDomain(dto EntryDTO) (ledger.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ledger.Entry{}, err
	}
	aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
	if err != nil {
		return ledger.Entry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ledger.Entry{}, err
	}
	l, ok := lifecycle.ParseLifecycle(dto.Lifecycle)
	if !ok {
		return ledger.Entry{}, fmt.Errorf("ledger entry %s: unknown lifecycle %q", dto.ID, dto.Lifecycle)
	}

	return ledger.RestoreEntry(id, l, aggregateID, orderID, dto.FromStatus, dto.ToStatus, dto.Actor, dto.Remarks, dto.At)
}

func toDomainList(dtos []EntryDTO) ([]ledger.Entry, error) {
	entries := make([]ledger.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
