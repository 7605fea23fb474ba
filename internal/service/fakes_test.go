package service

import (
	"context"
	"fmt"

	"tenderhub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. They satisfy the repository interfaces so
// services can be tested without a database; DB() returns nil and must
// not be reached by the paths under test.

// ── Dispatcher ───────────────────────────────────────────────────────────────

type fakeDispatcher struct {
	tenderRecomputes   []string
	positionRecomputes []string
}

func (f *fakeDispatcher) EnqueueTenderRecompute(_ context.Context, tenderID string) error {
	f.tenderRecomputes = append(f.tenderRecomputes, tenderID)
	return nil
}

func (f *fakeDispatcher) EnqueuePositionRecompute(_ context.Context, _, positionID string) error {
	f.positionRecomputes = append(f.positionRecomputes, positionID)
	return nil
}

// ── Tenders ──────────────────────────────────────────────────────────────────

type fakeTenderRepo struct {
	tenders   map[uuid.UUID]*model.Tender
	positions map[uuid.UUID]*model.Position
	posOrder  []uuid.UUID
}

func newFakeTenderRepo() *fakeTenderRepo {
	return &fakeTenderRepo{
		tenders:   make(map[uuid.UUID]*model.Tender),
		positions: make(map[uuid.UUID]*model.Position),
	}
}

func (f *fakeTenderRepo) Create(_ context.Context, t *model.Tender) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.tenders[t.ID] = t
	return nil
}

func (f *fakeTenderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tender, error) {
	t, ok := f.tenders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTenderRepo) List(_ context.Context) ([]model.Tender, int64, error) {
	out := make([]model.Tender, 0, len(f.tenders))
	for _, t := range f.tenders {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTenderRepo) CreatePosition(_ context.Context, p *model.Position) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.positions[p.ID] = p
	f.posOrder = append(f.posOrder, p.ID)
	return nil
}

func (f *fakeTenderRepo) FindPositionByID(_ context.Context, id uuid.UUID) (*model.Position, error) {
	p, ok := f.positions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeTenderRepo) ListPositions(_ context.Context, tenderID uuid.UUID) ([]model.Position, error) {
	var out []model.Position
	for _, id := range f.posOrder {
		if f.positions[id].TenderID == tenderID {
			out = append(out, *f.positions[id])
		}
	}
	return out, nil
}

func (f *fakeTenderRepo) DB() *gorm.DB { return nil }

// ── Line items ───────────────────────────────────────────────────────────────

type fakeLineItemRepo struct {
	items map[uuid.UUID]*model.LineItem
	order []uuid.UUID

	// failWrites makes UpdateCommercialCost error for the named items.
	failWrites map[uuid.UUID]bool
}

func newFakeLineItemRepo() *fakeLineItemRepo {
	return &fakeLineItemRepo{
		items:      make(map[uuid.UUID]*model.LineItem),
		failWrites: make(map[uuid.UUID]bool),
	}
}

func (f *fakeLineItemRepo) Create(_ context.Context, li *model.LineItem) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	f.items[li.ID] = li
	f.order = append(f.order, li.ID)
	return nil
}

func (f *fakeLineItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LineItem, error) {
	li, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return li, nil
}

func (f *fakeLineItemRepo) ListByTender(_ context.Context, tenderID uuid.UUID) ([]model.LineItem, error) {
	var out []model.LineItem
	for _, id := range f.order {
		if f.items[id].TenderID == tenderID {
			out = append(out, *f.items[id])
		}
	}
	return out, nil
}

func (f *fakeLineItemRepo) ListByPosition(_ context.Context, positionID uuid.UUID) ([]model.LineItem, error) {
	var out []model.LineItem
	for _, id := range f.order {
		li := f.items[id]
		if li.PositionID != nil && *li.PositionID == positionID {
			out = append(out, *li)
		}
	}
	return out, nil
}

func (f *fakeLineItemRepo) Update(_ context.Context, li *model.LineItem) error {
	if _, ok := f.items[li.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[li.ID] = li
	return nil
}

func (f *fakeLineItemRepo) UpdateCommercialCost(_ context.Context, id uuid.UUID, commercial, coefficient decimal.Decimal) error {
	if f.failWrites[id] {
		return fmt.Errorf("write failed for %s", id)
	}
	li, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	li.CommercialCost = commercial
	li.MarkupCoefficient = coefficient
	return nil
}

func (f *fakeLineItemRepo) DB() *gorm.DB { return nil }

// ── Markup profiles ──────────────────────────────────────────────────────────

type fakeProfileRepo struct {
	byTender map[uuid.UUID]*model.MarkupProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byTender: make(map[uuid.UUID]*model.MarkupProfile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *model.MarkupProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byTender[p.TenderID] = p
	return nil
}

func (f *fakeProfileRepo) FindActiveByTender(_ context.Context, tenderID uuid.UUID) (*model.MarkupProfile, error) {
	p, ok := f.byTender[tenderID]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *model.MarkupProfile) error {
	f.byTender[p.TenderID] = p
	return nil
}

// ── Cost categories ──────────────────────────────────────────────────────────

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.CostCategory
	// detailToCategory indexes every detail leaf by id.
	detailToCategory map[uuid.UUID]uuid.UUID
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories:       make(map[uuid.UUID]*model.CostCategory),
		detailToCategory: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeCategoryRepo) CreateWithDetails(_ context.Context, c *model.CostCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Details {
		if c.Details[i].ID == uuid.Nil {
			c.Details[i].ID = uuid.New()
		}
		c.Details[i].CategoryID = c.ID
		f.detailToCategory[c.Details[i].ID] = c.ID
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) ListByTender(_ context.Context, tenderID uuid.UUID) ([]model.CostCategory, error) {
	var out []model.CostCategory
	for _, c := range f.categories {
		if c.TenderID == tenderID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) ExpandCategory(_ context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(c.Details))
	for _, d := range c.Details {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (f *fakeCategoryRepo) CountDetails(_ context.Context, detailIDs []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range detailIDs {
		if _, ok := f.detailToCategory[id]; ok {
			count++
		}
	}
	return count, nil
}

// ── Redistributions ──────────────────────────────────────────────────────────

type fakeRedistributionRepo struct {
	requests map[uuid.UUID]*model.RedistributionRequest
	details  map[uuid.UUID][]model.RedistributionDetail
	order    []uuid.UUID
}

func newFakeRedistributionRepo() *fakeRedistributionRepo {
	return &fakeRedistributionRepo{
		requests: make(map[uuid.UUID]*model.RedistributionRequest),
		details:  make(map[uuid.UUID][]model.RedistributionDetail),
	}
}

func (f *fakeRedistributionRepo) CreateWithDetails(_ context.Context, req *model.RedistributionRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	f.requests[req.ID] = req
	f.details[req.ID] = append([]model.RedistributionDetail(nil), req.Details...)
	f.order = append(f.order, req.ID)
	return nil
}

func (f *fakeRedistributionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RedistributionRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (f *fakeRedistributionRepo) ListByTender(_ context.Context, tenderID uuid.UUID) ([]model.RedistributionRequest, error) {
	var out []model.RedistributionRequest
	for _, id := range f.order {
		if f.requests[id].TenderID == tenderID {
			out = append(out, *f.requests[id])
		}
	}
	return out, nil
}

func (f *fakeRedistributionRepo) FindActiveByTender(_ context.Context, tenderID uuid.UUID) (*model.RedistributionRequest, error) {
	for _, req := range f.requests {
		if req.TenderID == tenderID && req.IsActive {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRedistributionRepo) ListDetails(_ context.Context, requestID uuid.UUID) ([]model.RedistributionDetail, error) {
	return f.details[requestID], nil
}

func (f *fakeRedistributionRepo) Activate(_ context.Context, requestID, tenderID uuid.UUID) error {
	for _, req := range f.requests {
		if req.TenderID == tenderID {
			req.IsActive = false
		}
	}
	req, ok := f.requests[requestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.IsActive = true
	return nil
}

func (f *fakeRedistributionRepo) Deactivate(_ context.Context, requestID uuid.UUID) error {
	req, ok := f.requests[requestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.IsActive = false
	return nil
}

func (f *fakeRedistributionRepo) Delete(_ context.Context, requestID uuid.UUID) error {
	delete(f.requests, requestID)
	delete(f.details, requestID)
	for i, id := range f.order {
		if id == requestID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}
