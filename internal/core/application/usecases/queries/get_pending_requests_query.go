package queries

import (
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrGetPendingRequestsQueryIsNotConstructed = errors.New(
	"GetPendingRequestsQuery must be created via NewGetPendingRequestsQuery constructor",
)

// GetPendingRequestsQuery lists every cancellation and return still awaiting
// a decision, oldest first. It is the work queue of the people approving them.
//
// Example:
//
//	query := NewGetPendingRequestsQuery()
//	handler := NewGetPendingRequestsQueryHandler(db)
//
//	requests, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get pending requests: %w", err)
//	}
type GetPendingRequestsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetPendingRequestsQuery() GetPendingRequestsQuery {
	return GetPendingRequestsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetPendingRequestsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingRequestsQueryIsNotConstructed)
}

// GetPendingRequestsQueryResponse is one waiting request. Kind is
// "Cancellation" or "Return".
type GetPendingRequestsQueryResponse struct {
	Kind        string
	ID          kernel.UUID
	OrderID     kernel.UUID
	RequestedBy string
	RequestedAt time.Time
	Items       int
}
