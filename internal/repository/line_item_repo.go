package repository

import (
	"context"

	"tenderhub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LineItemRepository interface {
	Create(ctx context.Context, li *model.LineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LineItem, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]model.LineItem, error)
	ListByPosition(ctx context.Context, positionID uuid.UUID) ([]model.LineItem, error)
	Update(ctx context.Context, li *model.LineItem) error

	// UpdateCommercialCost writes one item's computed outputs. The batch
	// recompute issues these per item so a single failure never aborts
	// the rest of the batch.
	UpdateCommercialCost(ctx context.Context, id uuid.UUID, commercial, coefficient decimal.Decimal) error

	DB() *gorm.DB
}

type lineItemRepo struct{ db *gorm.DB }

func NewLineItemRepository(db *gorm.DB) LineItemRepository { return &lineItemRepo{db: db} }

func (r *lineItemRepo) Create(ctx context.Context, li *model.LineItem) error {
	return r.db.WithContext(ctx).Create(li).Error
}

func (r *lineItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LineItem, error) {
	var li model.LineItem
	err := r.db.WithContext(ctx).First(&li, "id = ?", id).Error
	return &li, err
}

func (r *lineItemRepo) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepo) ListByPosition(ctx context.Context, positionID uuid.UUID) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.db.WithContext(ctx).
		Where("position_id = ?", positionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *lineItemRepo) Update(ctx context.Context, li *model.LineItem) error {
	return r.db.WithContext(ctx).Save(li).Error
}

func (r *lineItemRepo) UpdateCommercialCost(ctx context.Context, id uuid.UUID, commercial, coefficient decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.LineItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"commercial_cost":    commercial,
		"markup_coefficient": coefficient,
	}).Error
}

func (r *lineItemRepo) DB() *gorm.DB { return r.db }
