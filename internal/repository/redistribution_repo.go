package repository

import (
	"context"

	"tenderhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedistributionRepository interface {
	// CreateWithDetails persists the canonical request (sources, targets)
	// together with its audit detail rows in a single transaction —
	// a request must never exist without its details.
	CreateWithDetails(ctx context.Context, req *model.RedistributionRequest) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.RedistributionRequest, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]model.RedistributionRequest, error)
	FindActiveByTender(ctx context.Context, tenderID uuid.UUID) (*model.RedistributionRequest, error)
	ListDetails(ctx context.Context, requestID uuid.UUID) ([]model.RedistributionDetail, error)

	// Activate flips the flag on one request and clears it on every
	// sibling of the same tender inside one transaction.
	Activate(ctx context.Context, requestID, tenderID uuid.UUID) error
	Deactivate(ctx context.Context, requestID uuid.UUID) error
	// Delete removes the request and cascades sources, targets and details.
	Delete(ctx context.Context, requestID uuid.UUID) error
}

type redistributionRepo struct{ db *gorm.DB }

func NewRedistributionRepository(db *gorm.DB) RedistributionRepository {
	return &redistributionRepo{db: db}
}

func (r *redistributionRepo) CreateWithDetails(ctx context.Context, req *model.RedistributionRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(req).Error
	})
}

func (r *redistributionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RedistributionRequest, error) {
	var req model.RedistributionRequest
	err := r.db.WithContext(ctx).
		Preload("Sources").
		Preload("Targets").
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *redistributionRepo) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]model.RedistributionRequest, error) {
	var reqs []model.RedistributionRequest
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Preload("Sources").
		Preload("Targets").
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *redistributionRepo) FindActiveByTender(ctx context.Context, tenderID uuid.UUID) (*model.RedistributionRequest, error) {
	var req model.RedistributionRequest
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND is_active = true", tenderID).
		Preload("Sources").
		Preload("Targets").
		First(&req).Error
	return &req, err
}

func (r *redistributionRepo) ListDetails(ctx context.Context, requestID uuid.UUID) ([]model.RedistributionDetail, error) {
	var details []model.RedistributionDetail
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Find(&details).Error
	return details, err
}

func (r *redistributionRepo) Activate(ctx context.Context, requestID, tenderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.RedistributionRequest{}).
			Where("tender_id = ? AND id <> ?", tenderID, requestID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.RedistributionRequest{}).
			Where("id = ?", requestID).
			Update("is_active", true).Error
	})
}

func (r *redistributionRepo) Deactivate(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.RedistributionRequest{}).
		Where("id = ?", requestID).
		Update("is_active", false).Error
}

func (r *redistributionRepo) Delete(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&model.RedistributionSource{},
			&model.RedistributionTarget{},
			&model.RedistributionDetail{},
		} {
			if err := tx.Where("request_id = ?", requestID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.RedistributionRequest{}, "id = ?", requestID).Error
	})
}
