// Package masterdata holds the read-only reference data consulted by the
// cancellation and return workflows: reasons and policies.
package masterdata

import (
	"time"

	"postpurchase/internal/core/domain/model/kernel"
)

// ReasonType tells which workflow a reason belongs to.
type ReasonType string

const (
	CancellationReason ReasonType = "Cancellation"
	ReturnReason       ReasonType = "Return"
)

type Reason struct {
	ID          kernel.UUID
	Type        ReasonType
	Code        string
	Description string
	IsActive    bool
}

// Policy limits how long after a reference moment a request may be made.
// For cancellations the reference is the order date, for returns the delivery.
// A zero Window means no time limit.
type Policy struct {
	ID       kernel.UUID
	Name     string
	Window   time.Duration
	IsActive bool
}

// Allows reports whether a request at now is inside the window opened at from.
func (p Policy) Allows(from, now time.Time) bool {
	if !p.IsActive || p.Window <= 0 {
		return true
	}
	return !now.After(from.Add(p.Window))
}
