package repository

import (
	"context"

	"tenderhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MarkupProfileRepository interface {
	Create(ctx context.Context, p *model.MarkupProfile) error
	// FindActiveByTender returns the tender's single active profile.
	FindActiveByTender(ctx context.Context, tenderID uuid.UUID) (*model.MarkupProfile, error)
	Update(ctx context.Context, p *model.MarkupProfile) error
}

type markupProfileRepo struct{ db *gorm.DB }

func NewMarkupProfileRepository(db *gorm.DB) MarkupProfileRepository {
	return &markupProfileRepo{db: db}
}

func (r *markupProfileRepo) Create(ctx context.Context, p *model.MarkupProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *markupProfileRepo) FindActiveByTender(ctx context.Context, tenderID uuid.UUID) (*model.MarkupProfile, error) {
	var p model.MarkupProfile
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND is_active = true", tenderID).
		First(&p).Error
	return &p, err
}

func (r *markupProfileRepo) Update(ctx context.Context, p *model.MarkupProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
