package ports

import (
	"context"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
)

// MasterDataProvider is a read-only lookup of reasons and policies.
// Unknown ids yield errs.ErrObjectNotFound.
type MasterDataProvider interface {
	GetReason(ctx context.Context, reasonType masterdata.ReasonType, id kernel.UUID) (masterdata.Reason, error)
	GetCancellationPolicy(ctx context.Context, id kernel.UUID) (masterdata.Policy, error)
	GetReturnPolicy(ctx context.Context, id kernel.UUID) (masterdata.Policy, error)
}
