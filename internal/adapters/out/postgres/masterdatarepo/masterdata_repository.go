package masterdatarepo

import (
	"context"
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMasterDataRepository implements MasterDataProvider using GORM.
type GormMasterDataRepository struct {
	db *gorm.DB
}

func NewGormMasterDataRepository(db *gorm.DB) *GormMasterDataRepository {
	return &GormMasterDataRepository{db: db}
}

// GetReason looks a reason up by id within the given type; a reason of the
// other type is reported as not found.
func (r *GormMasterDataRepository) GetReason(
	ctx context.Context,
	reasonType masterdata.ReasonType,
	id kernel.UUID,
) (masterdata.Reason, error) {
	if err := id.Validate(); err != nil {
		return masterdata.Reason{}, err
	}

	var dto ReasonDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ? AND type = ?", id.Bytes(), string(reasonType)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return masterdata.Reason{}, errs.NewObjectNotFoundError(string(reasonType)+" reason", id.String())
		}
		return masterdata.Reason{}, err
	}
	return reasonToDomain(dto)
}

func (r *GormMasterDataRepository) GetCancellationPolicy(ctx context.Context, id kernel.UUID) (masterdata.Policy, error) {
	return r.policy(ctx, cancellationPolicy, id)
}

func (r *GormMasterDataRepository) GetReturnPolicy(ctx context.Context, id kernel.UUID) (masterdata.Policy, error) {
	return r.policy(ctx, returnPolicy, id)
}

// SaveReason inserts or replaces a reason.
func (r *GormMasterDataRepository) SaveReason(ctx context.Context, reason masterdata.Reason) error {
	dto := reasonFromDomain(reason)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormMasterDataRepository) SaveCancellationPolicy(ctx context.Context, p masterdata.Policy) error {
	dto := policyFromDomain(cancellationPolicy, p)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormMasterDataRepository) SaveReturnPolicy(ctx context.Context, p masterdata.Policy) error {
	dto := policyFromDomain(returnPolicy, p)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormMasterDataRepository) policy(ctx context.Context, kind string, id kernel.UUID) (masterdata.Policy, error) {
	if err := id.Validate(); err != nil {
		return masterdata.Policy{}, err
	}

	var dto PolicyDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ? AND kind = ?", id.Bytes(), kind).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return masterdata.Policy{}, errs.NewObjectNotFoundError(kind+" policy", id.String())
		}
		return masterdata.Policy{}, err
	}
	return policyToDomain(dto)
}
