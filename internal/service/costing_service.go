package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tenderhub/internal/costing"
	"tenderhub/internal/dto"
	"tenderhub/internal/model"
	"tenderhub/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	// recomputeWorkers bounds the per-item computation fan-out. The math
	// is pure so the batch parallelizes freely; writes stay sequential.
	recomputeWorkers = 8

	costReportCacheTTL = 10 * time.Minute
)

type CostingService interface {
	// Preview computes a breakdown for an ad-hoc item against the
	// tender's active markup profile. No writes.
	Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error)

	// RecomputeTender recomputes and persists commercial costs for every
	// item of the tender. Per-item persistence failures do not abort the
	// batch; they are reported in the response.
	RecomputeTender(ctx context.Context, tenderID uuid.UUID) (*dto.RecomputeResponse, error)
	RecomputePosition(ctx context.Context, positionID uuid.UUID) (*dto.RecomputeResponse, error)

	// TenderCostReport aggregates per-position works/materials buckets
	// from the persisted commercial costs.
	TenderCostReport(ctx context.Context, tenderID uuid.UUID) (*dto.TenderCostReport, error)
}

type costingService struct {
	itemRepo    repository.LineItemRepository
	profileRepo repository.MarkupProfileRepository
	tenderRepo  repository.TenderRepository
	rdb         *redis.Client
}

func NewCostingService(
	itemRepo repository.LineItemRepository,
	profileRepo repository.MarkupProfileRepository,
	tenderRepo repository.TenderRepository,
	rdb *redis.Client,
) CostingService {
	return &costingService{
		itemRepo:    itemRepo,
		profileRepo: profileRepo,
		tenderRepo:  tenderRepo,
		rdb:         rdb,
	}
}

// activeRates loads the tender's active markup profile. Its absence is
// a precondition violation, not a recoverable error.
func (s *costingService) activeRates(ctx context.Context, tenderID uuid.UUID) (costing.Profile, error) {
	profile, err := s.profileRepo.FindActiveByTender(ctx, tenderID)
	if err != nil {
		return costing.Profile{}, fmt.Errorf("%w: no active markup profile for tender %s", ErrPrecondition, tenderID)
	}
	return profile.Rates, nil
}

// ── Preview ──────────────────────────────────────────────────────────────────

func (s *costingService) Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	tenderID, err := uuid.Parse(req.TenderID)
	if err != nil {
		return nil, validationf("invalid tender_id: %v", err)
	}
	rates, err := s.activeRates(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	item, err := previewItem(req.Item)
	if err != nil {
		return nil, err
	}

	var siblings []costing.Item
	if req.PositionID != nil {
		positionID, err := uuid.Parse(*req.PositionID)
		if err != nil {
			return nil, validationf("invalid position_id: %v", err)
		}
		rows, err := s.itemRepo.ListByPosition(ctx, positionID)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			siblings = append(siblings, rows[i].CostingItem())
		}
	}

	b := costing.Compute(item, siblings, rates)
	return &dto.PreviewResponse{
		BaseCost:              b.Base,
		CommercialCost:        b.CommercialCost,
		MarkupCoefficient:     b.MarkupCoefficient,
		WorksContribution:     b.WorksContribution,
		MaterialsContribution: b.MaterialsContribution,
	}, nil
}

// previewItem maps a create-item payload into a calculator input.
func previewItem(req dto.CreateLineItemRequest) (costing.Item, error) {
	item := costing.Item{
		ID:       uuid.New(),
		Kind:     costing.ItemKind(req.ItemKind),
		Quantity: req.Quantity,
		UnitRate: req.UnitRate,
	}
	if !item.Kind.Valid() {
		return costing.Item{}, validationf("unknown item_kind %q", req.ItemKind)
	}
	if req.MaterialSubtype != nil {
		item.Subtype = costing.MaterialSubtype(*req.MaterialSubtype)
	}
	if req.CurrencyMultiplier != nil {
		item.CurrencyMultiplier = *req.CurrencyMultiplier
	}
	item.DeliveryMode = costing.DeliveryIncluded
	if req.DeliveryMode != nil {
		item.DeliveryMode = costing.DeliveryMode(*req.DeliveryMode)
	}
	if req.DeliveryAmountPerUnit != nil {
		item.DeliveryAmountPerUnit = *req.DeliveryAmountPerUnit
	}
	if req.WorkItemID != nil {
		workID, err := uuid.Parse(*req.WorkItemID)
		if err != nil {
			return costing.Item{}, validationf("invalid work_item_id: %v", err)
		}
		link := &costing.WorkLink{WorkItemID: workID}
		if req.ConsumptionCoefficient != nil {
			link.ConsumptionCoefficient = *req.ConsumptionCoefficient
		}
		if req.ConversionCoefficient != nil {
			link.ConversionCoefficient = *req.ConversionCoefficient
		}
		item.Link = link
	}
	return item, nil
}

// ── Recompute ────────────────────────────────────────────────────────────────

func (s *costingService) RecomputeTender(ctx context.Context, tenderID uuid.UUID) (*dto.RecomputeResponse, error) {
	rates, err := s.activeRates(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	resp := s.recomputeItems(ctx, items, rates)
	s.invalidateReport(ctx, tenderID)
	return resp, nil
}

func (s *costingService) RecomputePosition(ctx context.Context, positionID uuid.UUID) (*dto.RecomputeResponse, error) {
	position, err := s.tenderRepo.FindPositionByID(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("%w: position %s", ErrNotFound, positionID)
	}
	rates, err := s.activeRates(ctx, position.TenderID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	resp := s.recomputeItems(ctx, items, rates)
	s.invalidateReport(ctx, position.TenderID)
	return resp, nil
}

// recomputeItems computes every breakdown concurrently, then persists
// outputs one item at a time, continuing past individual failures.
func (s *costingService) recomputeItems(ctx context.Context, items []model.LineItem, rates costing.Profile) *dto.RecomputeResponse {
	siblings := siblingsByPosition(items)
	breakdowns := make([]costing.Breakdown, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, recomputeWorkers)
	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			item := items[i].CostingItem()
			breakdowns[i] = costing.Compute(item, siblings[positionKey(items[i].PositionID)], rates)
		}(i)
	}
	wg.Wait()

	resp := &dto.RecomputeResponse{}
	for i := range items {
		b := breakdowns[i]
		if !b.Base.IsPositive() {
			resp.Skipped++
			continue
		}
		if err := s.itemRepo.UpdateCommercialCost(ctx, items[i].ID, b.CommercialCost, b.MarkupCoefficient); err != nil {
			log.Error().
				Str("line_item_id", items[i].ID.String()).
				Err(err).
				Msg("recompute: failed to persist commercial cost")
			resp.FailedIDs = append(resp.FailedIDs, items[i].ID.String())
			continue
		}
		resp.Computed++
	}
	if len(resp.FailedIDs) > 0 {
		resp.Warning = fmt.Sprintf("%d items failed to persist and were left unchanged", len(resp.FailedIDs))
	}
	return resp
}

// positionKey maps a nullable position id to a grouping key; items
// without a position share one sibling pool per tender.
func positionKey(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func siblingsByPosition(items []model.LineItem) map[uuid.UUID][]costing.Item {
	groups := make(map[uuid.UUID][]costing.Item)
	for i := range items {
		key := positionKey(items[i].PositionID)
		groups[key] = append(groups[key], items[i].CostingItem())
	}
	return groups
}

// ── Cost report ──────────────────────────────────────────────────────────────

func reportCacheKey(tenderID uuid.UUID) string { return "costreport:" + tenderID.String() }

func (s *costingService) invalidateReport(ctx context.Context, tenderID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, reportCacheKey(tenderID)).Err()
}

func (s *costingService) TenderCostReport(ctx context.Context, tenderID uuid.UUID) (*dto.TenderCostReport, error) {
	// Cache hit path — best effort, errors fall through to the DB
	if s.rdb == nil {
		return s.buildReport(ctx, tenderID)
	}
	if cached, err := s.rdb.Get(ctx, reportCacheKey(tenderID)).Bytes(); err == nil {
		var report dto.TenderCostReport
		if jsonErr := json.Unmarshal(cached, &report); jsonErr == nil {
			return &report, nil
		}
	}

	report, err := s.buildReport(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if b, jsonErr := json.Marshal(report); jsonErr == nil {
		_ = s.rdb.Set(ctx, reportCacheKey(tenderID), b, costReportCacheTTL).Err()
	}
	return report, nil
}

func (s *costingService) buildReport(ctx context.Context, tenderID uuid.UUID) (*dto.TenderCostReport, error) {
	if _, err := s.tenderRepo.FindByID(ctx, tenderID); err != nil {
		return nil, fmt.Errorf("%w: tender %s", ErrNotFound, tenderID)
	}
	positions, err := s.tenderRepo.ListPositions(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	siblings := siblingsByPosition(items)
	rows := make(map[uuid.UUID]*dto.PositionCostRow, len(positions))
	for i := range positions {
		rows[positions[i].ID] = &dto.PositionCostRow{
			PositionID:    positions[i].ID.String(),
			PositionTitle: positions[i].Title,
		}
	}

	report := &dto.TenderCostReport{TenderID: tenderID.String()}
	for i := range items {
		works, materials := persistedContributions(&items[i], siblings[positionKey(items[i].PositionID)])
		report.WorksCost = report.WorksCost.Add(works)
		report.MaterialsCost = report.MaterialsCost.Add(materials)
		report.CommercialCost = report.CommercialCost.Add(items[i].CommercialCost)
		if items[i].PositionID != nil {
			if row, ok := rows[*items[i].PositionID]; ok {
				row.WorksCost = row.WorksCost.Add(works)
				row.MaterialsCost = row.MaterialsCost.Add(materials)
				row.CommercialCost = row.CommercialCost.Add(items[i].CommercialCost)
			}
		}
	}
	for i := range positions {
		report.Positions = append(report.Positions, *rows[positions[i].ID])
	}
	return report, nil
}

// persistedContributions splits an item's stored commercial cost into
// the works and materials buckets using its freshly resolved base.
func persistedContributions(li *model.LineItem, siblings []costing.Item) (works, materials decimal.Decimal) {
	base := costing.ResolveBase(li.CostingItem(), siblings)
	return costing.Split(li.ItemKind, li.MaterialSubtype, base, li.CommercialCost)
}
