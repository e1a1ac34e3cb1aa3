package queries

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingRequestsQueryHandler reads pending requests with a single SQL
// statement over both request tables. Withdrawn requests are left out.
type GetPendingRequestsQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingRequestsQueryHandler(db *gorm.DB) GetPendingRequestsQueryHandler {
	return GetPendingRequestsQueryHandler{db: db}
}

func (h GetPendingRequestsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingRequestsQuery,
) ([]GetPendingRequestsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	requests := make([]GetPendingRequestsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT CAST(? AS text), c.id, c.order_id, c.requested_by, c.requested_at,
			(SELECT COALESCE(SUM(ci.quantity), 0) FROM cancellation_items ci WHERE ci.cancellation_id = c.id)
		FROM cancellations c
		WHERE c.status = ? AND c.deleted_at IS NULL
		UNION ALL
		SELECT CAST(? AS text), r.id, r.order_id, r.requested_by, r.requested_at,
			(SELECT COALESCE(SUM(ri.quantity), 0) FROM return_items ri WHERE ri.return_id = r.id)
		FROM returns r
		WHERE r.status = ? AND r.deleted_at IS NULL
		ORDER BY 5, 2
	`,
		lifecycle.Cancellation.String(), lifecycle.CancellationPending.String(),
		lifecycle.Return.String(), lifecycle.ReturnPending.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var request GetPendingRequestsQueryResponse
		var id, orderID uuid.UUID
		var requestedAt time.Time

		err = rows.Scan(
			&request.Kind,
			&id,
			&orderID,
			&request.RequestedBy,
			&requestedAt,
			&request.Items,
		)
		if err != nil {
			return nil, err
		}

		if request.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if request.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		request.RequestedAt = requestedAt.UTC()
		requests = append(requests, request)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
