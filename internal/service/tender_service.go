package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenderhub/internal/costing"
	"tenderhub/internal/dto"
	"tenderhub/internal/model"
	"tenderhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TenderService interface {
	// CreateTender provisions the tender together with its default
	// active markup profile in one transaction.
	CreateTender(ctx context.Context, req dto.CreateTenderRequest) (*dto.TenderResponse, error)
	GetTender(ctx context.Context, id uuid.UUID) (*dto.TenderResponse, error)
	ListTenders(ctx context.Context) (*dto.TenderListResponse, error)

	CreatePosition(ctx context.Context, tenderID uuid.UUID, req dto.CreatePositionRequest) (*dto.PositionResponse, error)
	ListPositions(ctx context.Context, tenderID uuid.UUID) ([]dto.PositionResponse, error)

	CreateLineItem(ctx context.Context, positionID uuid.UUID, req dto.CreateLineItemRequest) (*dto.LineItemResponse, error)
	UpdateLineItem(ctx context.Context, itemID uuid.UUID, req dto.UpdateLineItemRequest) (*dto.LineItemResponse, error)
	ListItemsByPosition(ctx context.Context, positionID uuid.UUID) ([]dto.LineItemResponse, error)
}

type tenderService struct {
	tenderRepo   repository.TenderRepository
	itemRepo     repository.LineItemRepository
	profileRepo  repository.MarkupProfileRepository
	categoryRepo repository.CostCategoryRepository
	dispatcher   RecomputeDispatcher
}

func NewTenderService(
	tenderRepo repository.TenderRepository,
	itemRepo repository.LineItemRepository,
	profileRepo repository.MarkupProfileRepository,
	categoryRepo repository.CostCategoryRepository,
	dispatcher RecomputeDispatcher,
) TenderService {
	return &tenderService{
		tenderRepo:   tenderRepo,
		itemRepo:     itemRepo,
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		dispatcher:   dispatcher,
	}
}

// ── Tenders ──────────────────────────────────────────────────────────────────

func (s *tenderService) CreateTender(ctx context.Context, req dto.CreateTenderRequest) (*dto.TenderResponse, error) {
	tender := &model.Tender{Name: req.Name, ClientName: req.ClientName}

	err := s.tenderRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tender).Error; err != nil {
			return err
		}
		profile := &model.MarkupProfile{
			TenderID: tender.ID,
			IsActive: true,
			Rates:    costing.DefaultProfile(),
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return tenderToResponse(tender), nil
}

func (s *tenderService) GetTender(ctx context.Context, id uuid.UUID) (*dto.TenderResponse, error) {
	tender, err := s.tenderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tender %s", ErrNotFound, id)
		}
		return nil, err
	}
	return tenderToResponse(tender), nil
}

func (s *tenderService) ListTenders(ctx context.Context) (*dto.TenderListResponse, error) {
	tenders, total, err := s.tenderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.TenderListResponse{Data: make([]dto.TenderResponse, 0, len(tenders)), Total: total}
	for i := range tenders {
		resp.Data = append(resp.Data, *tenderToResponse(&tenders[i]))
	}
	return resp, nil
}

// ── Positions ────────────────────────────────────────────────────────────────

func (s *tenderService) CreatePosition(ctx context.Context, tenderID uuid.UUID, req dto.CreatePositionRequest) (*dto.PositionResponse, error) {
	if _, err := s.tenderRepo.FindByID(ctx, tenderID); err != nil {
		return nil, fmt.Errorf("%w: tender %s", ErrNotFound, tenderID)
	}
	position := &model.Position{TenderID: tenderID, Number: req.Number, Title: req.Title}
	if err := s.tenderRepo.CreatePosition(ctx, position); err != nil {
		return nil, err
	}
	return positionToResponse(position), nil
}

func (s *tenderService) ListPositions(ctx context.Context, tenderID uuid.UUID) ([]dto.PositionResponse, error) {
	positions, err := s.tenderRepo.ListPositions(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		out = append(out, *positionToResponse(&positions[i]))
	}
	return out, nil
}

// ── Line items ───────────────────────────────────────────────────────────────

func (s *tenderService) CreateLineItem(ctx context.Context, positionID uuid.UUID, req dto.CreateLineItemRequest) (*dto.LineItemResponse, error) {
	position, err := s.tenderRepo.FindPositionByID(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("%w: position %s", ErrNotFound, positionID)
	}

	kind := costing.ItemKind(req.ItemKind)
	if !kind.Valid() {
		return nil, validationf("unknown item_kind %q", req.ItemKind)
	}

	item := &model.LineItem{
		TenderID:               position.TenderID,
		PositionID:             &positionID,
		Description:            req.Description,
		ItemKind:               kind,
		Quantity:               req.Quantity,
		UnitRate:               req.UnitRate,
		CurrencyMultiplier:     decimal.NewFromInt(1),
		DeliveryMode:           costing.DeliveryIncluded,
		ConsumptionCoefficient: decimal.NewFromInt(1),
		ConversionCoefficient:  decimal.NewFromInt(1),
	}
	if req.CurrencyMultiplier != nil {
		item.CurrencyMultiplier = *req.CurrencyMultiplier
	}

	if kind.IsMaterial() {
		if req.MaterialSubtype == nil {
			return nil, validationf("material_subtype is required for material kinds")
		}
		item.MaterialSubtype = costing.MaterialSubtype(*req.MaterialSubtype)
		if req.DeliveryMode != nil {
			item.DeliveryMode = costing.DeliveryMode(*req.DeliveryMode)
		}
		if req.DeliveryAmountPerUnit != nil {
			item.DeliveryAmountPerUnit = *req.DeliveryAmountPerUnit
		}
	} else {
		if req.MaterialSubtype != nil {
			return nil, validationf("material_subtype is only valid for material kinds")
		}
		if req.DeliveryMode != nil || req.DeliveryAmountPerUnit != nil {
			return nil, validationf("delivery settings are only valid for material kinds")
		}
		if req.WorkItemID != nil {
			return nil, validationf("work_item_id is only valid for material kinds")
		}
	}

	if req.WorkItemID != nil {
		workID, err := s.resolveWorkLink(ctx, *req.WorkItemID, position.TenderID, positionID)
		if err != nil {
			return nil, err
		}
		item.WorkItemID = &workID
		if req.ConsumptionCoefficient != nil {
			item.ConsumptionCoefficient = *req.ConsumptionCoefficient
		}
		if req.ConversionCoefficient != nil {
			item.ConversionCoefficient = *req.ConversionCoefficient
		}
	}

	if req.DetailCategoryID != nil {
		detailID, err := s.resolveDetailCategory(ctx, *req.DetailCategoryID)
		if err != nil {
			return nil, err
		}
		item.DetailCategoryID = &detailID
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.refreshPosition(ctx, item)
	return itemToResponse(item), nil
}

func (s *tenderService) UpdateLineItem(ctx context.Context, itemID uuid.UUID, req dto.UpdateLineItemRequest) (*dto.LineItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: line item %s", ErrNotFound, itemID)
	}

	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitRate != nil {
		item.UnitRate = *req.UnitRate
	}
	if req.CurrencyMultiplier != nil {
		item.CurrencyMultiplier = *req.CurrencyMultiplier
	}
	if req.DeliveryMode != nil || req.DeliveryAmountPerUnit != nil {
		if !item.ItemKind.IsMaterial() {
			return nil, validationf("delivery settings are only valid for material kinds")
		}
		if req.DeliveryMode != nil {
			item.DeliveryMode = costing.DeliveryMode(*req.DeliveryMode)
		}
		if req.DeliveryAmountPerUnit != nil {
			item.DeliveryAmountPerUnit = *req.DeliveryAmountPerUnit
		}
	}
	if req.WorkItemID != nil {
		if !item.ItemKind.IsMaterial() {
			return nil, validationf("work_item_id is only valid for material kinds")
		}
		positionID := uuid.Nil
		if item.PositionID != nil {
			positionID = *item.PositionID
		}
		workID, err := s.resolveWorkLink(ctx, *req.WorkItemID, item.TenderID, positionID)
		if err != nil {
			return nil, err
		}
		item.WorkItemID = &workID
	}
	if req.ConsumptionCoefficient != nil {
		item.ConsumptionCoefficient = *req.ConsumptionCoefficient
	}
	if req.ConversionCoefficient != nil {
		item.ConversionCoefficient = *req.ConversionCoefficient
	}
	if req.DetailCategoryID != nil {
		detailID, err := s.resolveDetailCategory(ctx, *req.DetailCategoryID)
		if err != nil {
			return nil, err
		}
		item.DetailCategoryID = &detailID
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.refreshPosition(ctx, item)
	return itemToResponse(item), nil
}

func (s *tenderService) ListItemsByPosition(ctx context.Context, positionID uuid.UUID) ([]dto.LineItemResponse, error) {
	items, err := s.itemRepo.ListByPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LineItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *itemToResponse(&items[i]))
	}
	return out, nil
}

// resolveWorkLink checks that the linked item exists, is a work kind
// and lives in the same position, so linked quantities stay local.
func (s *tenderService) resolveWorkLink(ctx context.Context, raw string, tenderID, positionID uuid.UUID) (uuid.UUID, error) {
	workID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validationf("invalid work_item_id: %v", err)
	}
	work, err := s.itemRepo.FindByID(ctx, workID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: work item %s", ErrNotFound, workID)
	}
	if !work.ItemKind.IsWork() {
		return uuid.Nil, validationf("linked item %s is not a work item", workID)
	}
	if work.TenderID != tenderID {
		return uuid.Nil, validationf("linked work item belongs to another tender")
	}
	if work.PositionID == nil || *work.PositionID != positionID {
		return uuid.Nil, validationf("linked work item belongs to another position")
	}
	return workID, nil
}

func (s *tenderService) resolveDetailCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	detailID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validationf("invalid detail_category_id: %v", err)
	}
	count, err := s.categoryRepo.CountDetails(ctx, []uuid.UUID{detailID})
	if err != nil {
		return uuid.Nil, err
	}
	if count == 0 {
		return uuid.Nil, fmt.Errorf("%w: detail cost category %s", ErrNotFound, detailID)
	}
	return detailID, nil
}

// refreshPosition schedules a recompute of the edited item's position.
// Linked materials derive their quantity from sibling works, so any
// edit can move more costs than its own row.
func (s *tenderService) refreshPosition(ctx context.Context, item *model.LineItem) {
	var err error
	if item.PositionID != nil {
		err = s.dispatcher.EnqueuePositionRecompute(ctx, item.TenderID.String(), item.PositionID.String())
	} else {
		err = s.dispatcher.EnqueueTenderRecompute(ctx, item.TenderID.String())
	}
	if err != nil {
		log.Error().
			Str("tender_id", item.TenderID.String()).
			Err(err).
			Msg("failed to enqueue recompute after item change")
	}
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func tenderToResponse(t *model.Tender) *dto.TenderResponse {
	return &dto.TenderResponse{
		ID:         t.ID.String(),
		Name:       t.Name,
		ClientName: t.ClientName,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}

func positionToResponse(p *model.Position) *dto.PositionResponse {
	return &dto.PositionResponse{
		ID:       p.ID.String(),
		TenderID: p.TenderID.String(),
		Number:   p.Number,
		Title:    p.Title,
	}
}

func itemToResponse(li *model.LineItem) *dto.LineItemResponse {
	resp := &dto.LineItemResponse{
		ID:                    li.ID.String(),
		TenderID:              li.TenderID.String(),
		Description:           li.Description,
		ItemKind:              string(li.ItemKind),
		MaterialSubtype:       string(li.MaterialSubtype),
		Quantity:              li.Quantity,
		UnitRate:              li.UnitRate,
		CurrencyMultiplier:    li.CurrencyMultiplier,
		DeliveryMode:          string(li.DeliveryMode),
		DeliveryAmountPerUnit: li.DeliveryAmountPerUnit,
		CommercialCost:        li.CommercialCost,
		MarkupCoefficient:     li.MarkupCoefficient,
	}
	if li.PositionID != nil {
		s := li.PositionID.String()
		resp.PositionID = &s
	}
	if li.DetailCategoryID != nil {
		s := li.DetailCategoryID.String()
		resp.DetailCategoryID = &s
	}
	if li.WorkItemID != nil {
		s := li.WorkItemID.String()
		resp.WorkItemID = &s
	}
	return resp
}
