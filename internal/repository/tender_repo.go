package repository

import (
	"context"

	"tenderhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenderRepository defines the data access contract for tenders and
// their positions. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via fakes.
type TenderRepository interface {
	Create(ctx context.Context, t *model.Tender) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tender, error)
	List(ctx context.Context) ([]model.Tender, int64, error)

	CreatePosition(ctx context.Context, p *model.Position) error
	FindPositionByID(ctx context.Context, id uuid.UUID) (*model.Position, error)
	ListPositions(ctx context.Context, tenderID uuid.UUID) ([]model.Position, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type tenderRepo struct{ db *gorm.DB }

func NewTenderRepository(db *gorm.DB) TenderRepository { return &tenderRepo{db: db} }

func (r *tenderRepo) Create(ctx context.Context, t *model.Tender) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tenderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tender, error) {
	var t model.Tender
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tenderRepo) List(ctx context.Context) ([]model.Tender, int64, error) {
	var tenders []model.Tender
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Tender{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Find(&tenders).Error
	return tenders, total, err
}

func (r *tenderRepo) CreatePosition(ctx context.Context, p *model.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *tenderRepo) FindPositionByID(ctx context.Context, id uuid.UUID) (*model.Position, error) {
	var p model.Position
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *tenderRepo) ListPositions(ctx context.Context, tenderID uuid.UUID) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("number ASC").
		Find(&positions).Error
	return positions, err
}

func (r *tenderRepo) DB() *gorm.DB { return r.db }
