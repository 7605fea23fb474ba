package repository

import (
	"context"

	"tenderhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostCategoryRepository interface {
	// CreateWithDetails persists a category and its detail leaves in one
	// transaction.
	CreateWithDetails(ctx context.Context, c *model.CostCategory) error
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]model.CostCategory, error)
	// ExpandCategory resolves a bare category id to the ids of all its
	// detail leaves.
	ExpandCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)
	// CountDetails reports how many of the given detail ids exist.
	CountDetails(ctx context.Context, detailIDs []uuid.UUID) (int64, error)
}

type costCategoryRepo struct{ db *gorm.DB }

func NewCostCategoryRepository(db *gorm.DB) CostCategoryRepository {
	return &costCategoryRepo{db: db}
}

func (r *costCategoryRepo) CreateWithDetails(ctx context.Context, c *model.CostCategory) error {
	// gorm cascades the Details association inside one insert transaction
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *costCategoryRepo) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]model.CostCategory, error) {
	var categories []model.CostCategory
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Preload("Details").
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *costCategoryRepo) ExpandCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.DetailCostCategory{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *costCategoryRepo) CountDetails(ctx context.Context, detailIDs []uuid.UUID) (int64, error) {
	if len(detailIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DetailCostCategory{}).
		Where("id IN ?", detailIDs).
		Count(&count).Error
	return count, err
}
