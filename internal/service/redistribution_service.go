package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tenderhub/internal/costing"
	"tenderhub/internal/dto"
	"tenderhub/internal/model"
	"tenderhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RedistributionService is the coordinator for operator-directed cost
// shifts between detail cost categories. Submission, activation,
// deactivation and deletion are serialized per tender: "exactly one
// active request" is a cross-row invariant a read-modify-write race
// could violate.
type RedistributionService interface {
	BuildAndSubmit(ctx context.Context, tenderID uuid.UUID, req dto.CreateRedistributionRequest) (*dto.RedistributionResponse, error)
	List(ctx context.Context, tenderID uuid.UUID) ([]dto.RedistributionResponse, error)
	Details(ctx context.Context, requestID uuid.UUID) ([]dto.RedistributionDetailResponse, error)
	Activate(ctx context.Context, requestID uuid.UUID) error
	Deactivate(ctx context.Context, requestID uuid.UUID) error
	Delete(ctx context.Context, requestID uuid.UUID) error
	// ActiveReport reconciles the active request's audit rows against
	// the tender's current items, per position.
	ActiveReport(ctx context.Context, tenderID uuid.UUID) (*dto.RedistributionReportResponse, error)
}

type redistributionService struct {
	repo         repository.RedistributionRepository
	categoryRepo repository.CostCategoryRepository
	itemRepo     repository.LineItemRepository
	tenderRepo   repository.TenderRepository

	locks tenderLocks
}

func NewRedistributionService(
	repo repository.RedistributionRepository,
	categoryRepo repository.CostCategoryRepository,
	itemRepo repository.LineItemRepository,
	tenderRepo repository.TenderRepository,
) RedistributionService {
	return &redistributionService{
		repo:         repo,
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		tenderRepo:   tenderRepo,
	}
}

// ── Per-tender serialization ─────────────────────────────────────────────────

type tenderLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (t *tenderLocks) forTender(id uuid.UUID) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locks == nil {
		t.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	l, ok := t.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.locks[id] = l
	}
	return l
}

// ── Canonicalization ─────────────────────────────────────────────────────────

// buildWithdrawalMap expands every entry to detail-category ids and
// merges duplicates by summing their percentages. A merged percent
// outside (0, 100] fails validation — silently capping would persist a
// request that differs from what the operator asked for.
func (s *redistributionService) buildWithdrawalMap(ctx context.Context, entries []dto.WithdrawalEntry) (map[uuid.UUID]decimal.Decimal, error) {
	withdrawals := make(map[uuid.UUID]decimal.Decimal)
	for i, entry := range entries {
		ids, err := s.expandEntry(ctx, entry.DetailCategoryIDs, entry.CategoryID, i)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			withdrawals[id] = withdrawals[id].Add(entry.Percent)
		}
	}
	if len(withdrawals) == 0 {
		return nil, validationf("withdrawal set is empty")
	}
	for id, pct := range withdrawals {
		if !pct.IsPositive() || pct.GreaterThan(hundred) {
			return nil, validationf("withdrawal percent for category %s is %s, must be in (0, 100]", id, pct)
		}
	}
	return withdrawals, nil
}

// buildTargetSet expands target entries into a deduplicated set.
func (s *redistributionService) buildTargetSet(ctx context.Context, entries []dto.TargetEntry) (map[uuid.UUID]struct{}, error) {
	targets := make(map[uuid.UUID]struct{})
	for i, entry := range entries {
		ids, err := s.expandEntry(ctx, entry.DetailCategoryIDs, entry.CategoryID, i)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			targets[id] = struct{}{}
		}
	}
	if len(targets) == 0 {
		return nil, validationf("target set is empty")
	}
	return targets, nil
}

// expandEntry resolves one entry to detail ids: either the explicit
// list, or every detail leaf of a bare category.
func (s *redistributionService) expandEntry(ctx context.Context, detailIDs []string, categoryID *string, idx int) ([]uuid.UUID, error) {
	if len(detailIDs) > 0 && categoryID != nil {
		return nil, validationf("entry %d names both detail categories and a category", idx)
	}
	if len(detailIDs) == 0 && categoryID == nil {
		return nil, validationf("entry %d names neither detail categories nor a category", idx)
	}

	if categoryID != nil {
		catID, err := uuid.Parse(*categoryID)
		if err != nil {
			return nil, validationf("entry %d: invalid category_id: %v", idx, err)
		}
		ids, err := s.categoryRepo.ExpandCategory(ctx, catID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: category %s has no detail categories", ErrNotFound, catID)
		}
		return ids, nil
	}

	ids := make([]uuid.UUID, 0, len(detailIDs))
	for _, raw := range detailIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, validationf("entry %d: invalid detail_category_id: %v", idx, err)
		}
		ids = append(ids, id)
	}
	count, err := s.categoryRepo.CountDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, fmt.Errorf("%w: entry %d references unknown detail categories", ErrNotFound, idx)
	}
	return ids, nil
}

// validateMaps rejects empty sides and any category appearing as both
// donor and receiver — that would be a self-canceling or divergent loop.
func validateMaps(withdrawals map[uuid.UUID]decimal.Decimal, targets map[uuid.UUID]struct{}) error {
	if len(withdrawals) == 0 {
		return validationf("withdrawal set is empty")
	}
	if len(targets) == 0 {
		return validationf("target set is empty")
	}
	for id := range withdrawals {
		if _, clash := targets[id]; clash {
			return validationf("category %s appears in both the withdrawal and target sets", id)
		}
	}
	return nil
}

// ── Submission ───────────────────────────────────────────────────────────────

func (s *redistributionService) BuildAndSubmit(ctx context.Context, tenderID uuid.UUID, req dto.CreateRedistributionRequest) (*dto.RedistributionResponse, error) {
	if _, err := s.tenderRepo.FindByID(ctx, tenderID); err != nil {
		return nil, fmt.Errorf("%w: tender %s", ErrNotFound, tenderID)
	}

	withdrawals, err := s.buildWithdrawalMap(ctx, req.Sources)
	if err != nil {
		return nil, err
	}
	targets, err := s.buildTargetSet(ctx, req.Targets)
	if err != nil {
		return nil, err
	}
	if err := validateMaps(withdrawals, targets); err != nil {
		return nil, err
	}

	lock := s.locks.forTender(tenderID)
	lock.Lock()
	defer lock.Unlock()

	details, err := s.allocate(ctx, tenderID, withdrawals, targets)
	if err != nil {
		return nil, err
	}

	request := &model.RedistributionRequest{
		TenderID: tenderID,
		Name:     req.Name,
		IsActive: false,
		Details:  details,
	}
	for id, pct := range withdrawals {
		request.Sources = append(request.Sources, model.RedistributionSource{
			DetailCategoryID: id,
			Percent:          pct,
		})
	}
	for id := range targets {
		request.Targets = append(request.Targets, model.RedistributionTarget{DetailCategoryID: id})
	}

	if err := s.repo.CreateWithDetails(ctx, request); err != nil {
		return nil, err
	}

	log.Info().
		Str("tender_id", tenderID.String()).
		Str("request_id", request.ID.String()).
		Int("sources", len(request.Sources)).
		Int("targets", len(request.Targets)).
		Int("details", len(details)).
		Msg("redistribution submitted")

	return requestToResponse(request), nil
}

// allocate computes the per-item audit rows: withdraw percent-shares of
// the works contribution from every source item, then distribute the
// total across target items proportionally to their works contributions.
func (s *redistributionService) allocate(
	ctx context.Context,
	tenderID uuid.UUID,
	withdrawals map[uuid.UUID]decimal.Decimal,
	targets map[uuid.UUID]struct{},
) ([]model.RedistributionDetail, error) {
	all, err := s.itemRepo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	siblings := siblingsByPosition(all)
	worksOf := func(li *model.LineItem) decimal.Decimal {
		works, _ := persistedContributions(li, siblings[positionKey(li.PositionID)])
		return works
	}

	var details []model.RedistributionDetail
	totalWithdrawn := decimal.Zero
	for i := range all {
		li := &all[i]
		if li.DetailCategoryID == nil {
			continue
		}
		pct, isSource := withdrawals[*li.DetailCategoryID]
		if !isSource {
			continue
		}
		delta := worksOf(li).Mul(pct).Div(hundred)
		if delta.IsZero() {
			continue
		}
		totalWithdrawn = totalWithdrawn.Add(delta)
		details = append(details, model.RedistributionDetail{
			LineItemID:                  li.ID,
			OriginalCommercialCost:      li.CommercialCost,
			RedistributedCommercialCost: li.CommercialCost.Sub(delta),
			AdjustmentAmount:            delta.Neg(),
		})
	}
	if totalWithdrawn.IsZero() {
		return nil, validationf("withdrawal categories carry no works cost to redistribute")
	}

	type targetItem struct {
		li    *model.LineItem
		works decimal.Decimal
	}
	var targetItems []targetItem
	totalTargetWorks := decimal.Zero
	for i := range all {
		li := &all[i]
		if li.DetailCategoryID == nil {
			continue
		}
		if _, isTarget := targets[*li.DetailCategoryID]; !isTarget {
			continue
		}
		works := worksOf(li)
		if !works.IsPositive() {
			continue
		}
		targetItems = append(targetItems, targetItem{li: li, works: works})
		totalTargetWorks = totalTargetWorks.Add(works)
	}
	if len(targetItems) == 0 || !totalTargetWorks.IsPositive() {
		return nil, validationf("target categories carry no works cost to receive the redistribution")
	}

	// Proportional shares; the residual left by division goes to the
	// largest target so the adjustments conserve the total exactly.
	allocated := decimal.Zero
	largest := 0
	firstTarget := len(details)
	for i, t := range targetItems {
		share := totalWithdrawn.Mul(t.works).Div(totalTargetWorks)
		allocated = allocated.Add(share)
		if t.works.GreaterThan(targetItems[largest].works) {
			largest = i
		}
		details = append(details, model.RedistributionDetail{
			LineItemID:                  t.li.ID,
			OriginalCommercialCost:      t.li.CommercialCost,
			RedistributedCommercialCost: t.li.CommercialCost.Add(share),
			AdjustmentAmount:            share,
		})
	}
	if residual := totalWithdrawn.Sub(allocated); !residual.IsZero() {
		row := &details[firstTarget+largest]
		row.AdjustmentAmount = row.AdjustmentAmount.Add(residual)
		row.RedistributedCommercialCost = row.RedistributedCommercialCost.Add(residual)
	}
	return details, nil
}

// ── Flag operations ──────────────────────────────────────────────────────────

func (s *redistributionService) Activate(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("%w: redistribution %s", ErrNotFound, requestID)
	}

	lock := s.locks.forTender(request.TenderID)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.Activate(ctx, requestID, request.TenderID)
}

func (s *redistributionService) Deactivate(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("%w: redistribution %s", ErrNotFound, requestID)
	}

	lock := s.locks.forTender(request.TenderID)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.Deactivate(ctx, requestID)
}

func (s *redistributionService) Delete(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("%w: redistribution %s", ErrNotFound, requestID)
	}

	lock := s.locks.forTender(request.TenderID)
	lock.Lock()
	defer lock.Unlock()

	return s.repo.Delete(ctx, requestID)
}

// ── Read paths ───────────────────────────────────────────────────────────────

func (s *redistributionService) List(ctx context.Context, tenderID uuid.UUID) ([]dto.RedistributionResponse, error) {
	requests, err := s.repo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.RedistributionResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *requestToResponse(&requests[i]))
	}
	return responses, nil
}

func (s *redistributionService) Details(ctx context.Context, requestID uuid.UUID) ([]dto.RedistributionDetailResponse, error) {
	if _, err := s.repo.FindByID(ctx, requestID); err != nil {
		return nil, fmt.Errorf("%w: redistribution %s", ErrNotFound, requestID)
	}
	rows, err := s.repo.ListDetails(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RedistributionDetailResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.RedistributionDetailResponse{
			LineItemID:                  row.LineItemID.String(),
			OriginalCommercialCost:      row.OriginalCommercialCost,
			RedistributedCommercialCost: row.RedistributedCommercialCost,
			AdjustmentAmount:            row.AdjustmentAmount,
		})
	}
	return out, nil
}

// ActiveReport recomputes, per position, the works cost before and
// after the active redistribution: items with an audit row contribute
// their redistributed commercial cost split via the attribution rules,
// all others contribute their own works contribution unchanged.
func (s *redistributionService) ActiveReport(ctx context.Context, tenderID uuid.UUID) (*dto.RedistributionReportResponse, error) {
	request, err := s.repo.FindActiveByTender(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: no active redistribution for tender %s", ErrNotFound, tenderID)
	}
	detailRows, err := s.repo.ListDetails(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	byItem := make(map[uuid.UUID]*model.RedistributionDetail, len(detailRows))
	for i := range detailRows {
		byItem[detailRows[i].LineItemID] = &detailRows[i]
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

	rows := make(map[uuid.UUID]*dto.PositionAdjustmentRow, len(positions))
	for i := range positions {
		rows[positions[i].ID] = &dto.PositionAdjustmentRow{
			PositionID:    positions[i].ID.String(),
			PositionTitle: positions[i].Title,
		}
	}

	for i := range items {
		li := &items[i]
		if li.PositionID == nil {
			continue
		}
		row, ok := rows[*li.PositionID]
		if !ok {
			continue
		}
		sibs := siblings[positionKey(li.PositionID)]
		base := costing.ResolveBase(li.CostingItem(), sibs)

		originalWorks, _ := costing.Split(li.ItemKind, li.MaterialSubtype, base, li.CommercialCost)
		row.OriginalWorksCost = row.OriginalWorksCost.Add(originalWorks)

		redistributed := li.CommercialCost
		if detail, touched := byItem[li.ID]; touched {
			redistributed = detail.RedistributedCommercialCost
		}
		redistributedWorks, _ := costing.Split(li.ItemKind, li.MaterialSubtype, base, redistributed)
		row.RedistributedWorksCost = row.RedistributedWorksCost.Add(redistributedWorks)
	}

	report := &dto.RedistributionReportResponse{
		RequestID:   request.ID.String(),
		RequestName: request.Name,
	}
	for i := range positions {
		row := rows[positions[i].ID]
		row.Adjustment = row.RedistributedWorksCost.Sub(row.OriginalWorksCost)
		report.Positions = append(report.Positions, *row)
	}
	return report, nil
}

func requestToResponse(request *model.RedistributionRequest) *dto.RedistributionResponse {
	resp := &dto.RedistributionResponse{
		ID:        request.ID.String(),
		TenderID:  request.TenderID.String(),
		Name:      request.Name,
		IsActive:  request.IsActive,
		CreatedAt: request.CreatedAt.Format(time.RFC3339),
	}
	for _, src := range request.Sources {
		resp.Sources = append(resp.Sources, dto.RedistributionSourceResponse{
			DetailCategoryID: src.DetailCategoryID.String(),
			Percent:          src.Percent,
		})
	}
	for _, tgt := range request.Targets {
		resp.TargetIDs = append(resp.TargetIDs, tgt.DetailCategoryID.String())
	}
	return resp
}
