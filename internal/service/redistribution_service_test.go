package service

import (
	"context"
	"testing"

	"tenderhub/internal/costing"
	"tenderhub/internal/dto"
	"tenderhub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redistributionFixture struct {
	svc      RedistributionService
	repo     *fakeRedistributionRepo
	items    *fakeLineItemRepo
	tenderID uuid.UUID

	// two donor leaves under "site costs", two receiver leaves elsewhere
	detailA uuid.UUID
	detailB uuid.UUID
	detailC uuid.UUID
	detailD uuid.UUID

	siteCategoryID  uuid.UUID
	emptyCategoryID uuid.UUID

	pos1 uuid.UUID // holds the donor items
	pos2 uuid.UUID // holds the receiver items

	itemA uuid.UUID // detail A, works 100
	itemB uuid.UUID // detail B, works 300
	itemC uuid.UUID // detail C, works 100
	itemD uuid.UUID // detail D, works 300
}

func newRedistributionFixture(t *testing.T) *redistributionFixture {
	t.Helper()
	ctx := context.Background()

	tenderRepo := newFakeTenderRepo()
	itemRepo := newFakeLineItemRepo()
	categoryRepo := newFakeCategoryRepo()
	redisRepo := newFakeRedistributionRepo()

	tender := &model.Tender{Name: "Office block"}
	require.NoError(t, tenderRepo.Create(ctx, tender))

	site := &model.CostCategory{
		TenderID: tender.ID,
		Name:     "Site costs",
		Details: []model.DetailCostCategory{
			{Name: "Temporary roads"},
			{Name: "Site lighting"},
		},
	}
	require.NoError(t, categoryRepo.CreateWithDetails(ctx, site))

	receiving := &model.CostCategory{
		TenderID: tender.ID,
		Name:     "Structural works",
		Details: []model.DetailCostCategory{
			{Name: "Foundations"},
			{Name: "Frame"},
		},
	}
	require.NoError(t, categoryRepo.CreateWithDetails(ctx, receiving))

	empty := &model.CostCategory{TenderID: tender.ID, Name: "Unused"}
	require.NoError(t, categoryRepo.CreateWithDetails(ctx, empty))

	f := &redistributionFixture{
		repo:            redisRepo,
		items:           itemRepo,
		tenderID:        tender.ID,
		detailA:         site.Details[0].ID,
		detailB:         site.Details[1].ID,
		detailC:         receiving.Details[0].ID,
		detailD:         receiving.Details[1].ID,
		siteCategoryID:  site.ID,
		emptyCategoryID: empty.ID,
	}

	p1 := &model.Position{TenderID: tender.ID, Number: 1, Title: "Preparation"}
	require.NoError(t, tenderRepo.CreatePosition(ctx, p1))
	p2 := &model.Position{TenderID: tender.ID, Number: 2, Title: "Structure"}
	require.NoError(t, tenderRepo.CreatePosition(ctx, p2))
	f.pos1 = p1.ID
	f.pos2 = p2.ID

	addWork := func(positionID, detailID uuid.UUID, commercial int64) uuid.UUID {
		li := &model.LineItem{
			TenderID:           tender.ID,
			PositionID:         &positionID,
			DetailCategoryID:   &detailID,
			Description:        "work row",
			ItemKind:           costing.KindWork,
			Quantity:           decimal.NewFromInt(1),
			UnitRate:           decimal.NewFromInt(1),
			CurrencyMultiplier: decimal.NewFromInt(1),
			DeliveryMode:       costing.DeliveryIncluded,
			CommercialCost:     decimal.NewFromInt(commercial),
		}
		require.NoError(t, itemRepo.Create(ctx, li))
		return li.ID
	}
	f.itemA = addWork(f.pos1, f.detailA, 100)
	f.itemB = addWork(f.pos1, f.detailB, 300)
	f.itemC = addWork(f.pos2, f.detailC, 100)
	f.itemD = addWork(f.pos2, f.detailD, 300)

	f.svc = NewRedistributionService(redisRepo, categoryRepo, itemRepo, tenderRepo)
	return f
}

func pctEntry(detailID uuid.UUID, percent string) dto.WithdrawalEntry {
	return dto.WithdrawalEntry{
		DetailCategoryIDs: []string{detailID.String()},
		Percent:           decimal.RequireFromString(percent),
	}
}

func targetEntry(detailIDs ...uuid.UUID) dto.TargetEntry {
	entry := dto.TargetEntry{}
	for _, id := range detailIDs {
		entry.DetailCategoryIDs = append(entry.DetailCategoryIDs, id.String())
	}
	return entry
}

func TestBuildAndSubmitConservesTotal(t *testing.T) {
	f := newRedistributionFixture(t)
	ctx := context.Background()

	resp, err := f.svc.BuildAndSubmit(ctx, f.tenderID, dto.CreateRedistributionRequest{
		Name:    "shift site costs",
		Sources: []dto.WithdrawalEntry{pctEntry(f.detailA, "25"), pctEntry(f.detailB, "25")},
		Targets: []dto.TargetEntry{targetEntry(f.detailC, f.detailD)},
	})
	require.NoError(t, err)
	assert.False(t, resp.IsActive, "submission must not activate the request")

	requestID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	details, err := f.repo.ListDetails(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, details, 4)

	byItem := make(map[uuid.UUID]model.RedistributionDetail)
	total := decimal.Zero
	for _, d := range details {
		byItem[d.LineItemID] = d
		total = total.Add(d.AdjustmentAmount)
	}
	// 25% of 100 and of 300 leaves the donors, 100 in total
	assert.True(t, byItem[f.itemA].AdjustmentAmount.Equal(decimal.NewFromInt(-25)))
	assert.True(t, byItem[f.itemB].AdjustmentAmount.Equal(decimal.NewFromInt(-75)))
	// receivers split 100 proportionally to works 100:300
	assert.True(t, byItem[f.itemC].AdjustmentAmount.Equal(decimal.NewFromInt(25)))
	assert.True(t, byItem[f.itemD].AdjustmentAmount.Equal(decimal.NewFromInt(75)))
	assert.True(t, total.IsZero(), "adjustments must conserve the total, got %s", total)

	for _, d := range details {
		assert.True(t, d.RedistributedCommercialCost.Sub(d.OriginalCommercialCost).Equal(d.AdjustmentAmount))
	}
}

func TestBuildAndSubmitMergesDuplicateSources(t *testing.T) {
	f := newRedistributionFixture(t)

	resp, err := f.svc.BuildAndSubmit(context.Background(), f.tenderID, dto.CreateRedistributionRequest{
		Name: "merged donors",
		Sources: []dto.WithdrawalEntry{
			pctEntry(f.detailA, "10"),
			pctEntry(f.detailA, "15"),
		},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Sources, 1)
	assert.True(t, resp.Sources[0].Percent.Equal(decimal.NewFromInt(25)))
}

func TestBuildAndSubmitRejectsMergedPercentOver100(t *testing.T) {
	f := newRedistributionFixture(t)

	_, err := f.svc.BuildAndSubmit(context.Background(), f.tenderID, dto.CreateRedistributionRequest{
		Name: "too much",
		Sources: []dto.WithdrawalEntry{
			pctEntry(f.detailA, "60"),
			pctEntry(f.detailA, "50"),
		},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBuildAndSubmitRejectsSourceTargetOverlap(t *testing.T) {
	f := newRedistributionFixture(t)

	_, err := f.svc.BuildAndSubmit(context.Background(), f.tenderID, dto.CreateRedistributionRequest{
		Name:    "loop",
		Sources: []dto.WithdrawalEntry{pctEntry(f.detailA, "20")},
		Targets: []dto.TargetEntry{targetEntry(f.detailA, f.detailC)},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBuildAndSubmitRejectsEmptyCategoryExpansion(t *testing.T) {
	f := newRedistributionFixture(t)
	catID := f.emptyCategoryID.String()

	_, err := f.svc.BuildAndSubmit(context.Background(), f.tenderID, dto.CreateRedistributionRequest{
		Name:    "nothing to take",
		Sources: []dto.WithdrawalEntry{{CategoryID: &catID, Percent: decimal.NewFromInt(10)}},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBuildAndSubmitRejectsAmbiguousEntry(t *testing.T) {
	f := newRedistributionFixture(t)
	catID := f.siteCategoryID.String()

	_, err := f.svc.BuildAndSubmit(context.Background(), f.tenderID, dto.CreateRedistributionRequest{
		Name: "both forms",
		Sources: []dto.WithdrawalEntry{{
			DetailCategoryIDs: []string{f.detailA.String()},
			CategoryID:        &catID,
			Percent:           decimal.NewFromInt(10),
		}},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBuildAndSubmitExpandsWholeCategory(t *testing.T) {
	f := newRedistributionFixture(t)
	catID := f.siteCategoryID.String()

	resp, err := f.svc.BuildAndSubmit(context.Background(), f.tenderID, dto.CreateRedistributionRequest{
		Name:    "whole category donor",
		Sources: []dto.WithdrawalEntry{{CategoryID: &catID, Percent: decimal.NewFromInt(10)}},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Sources, 2, "both detail leaves of the category become donors")
}

func TestBuildAndSubmitRejectsZeroWorksWithdrawal(t *testing.T) {
	f := newRedistributionFixture(t)
	ctx := context.Background()

	// zero out the donors so there is nothing to withdraw
	for _, id := range []uuid.UUID{f.itemA, f.itemB} {
		li, err := f.items.FindByID(ctx, id)
		require.NoError(t, err)
		li.CommercialCost = decimal.Zero
	}

	_, err := f.svc.BuildAndSubmit(ctx, f.tenderID, dto.CreateRedistributionRequest{
		Name:    "empty donors",
		Sources: []dto.WithdrawalEntry{pctEntry(f.detailA, "25"), pctEntry(f.detailB, "25")},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestActivateKeepsExactlyOneActive(t *testing.T) {
	f := newRedistributionFixture(t)
	ctx := context.Background()

	submit := func(name string) uuid.UUID {
		resp, err := f.svc.BuildAndSubmit(ctx, f.tenderID, dto.CreateRedistributionRequest{
			Name:    name,
			Sources: []dto.WithdrawalEntry{pctEntry(f.detailA, "10")},
			Targets: []dto.TargetEntry{targetEntry(f.detailC)},
		})
		require.NoError(t, err)
		id, err := uuid.Parse(resp.ID)
		require.NoError(t, err)
		return id
	}
	first := submit("first")
	second := submit("second")

	require.NoError(t, f.svc.Activate(ctx, first))
	require.NoError(t, f.svc.Activate(ctx, second))

	requests, err := f.svc.List(ctx, f.tenderID)
	require.NoError(t, err)
	active := 0
	for _, r := range requests {
		if r.IsActive {
			active++
			assert.Equal(t, second.String(), r.ID)
		}
	}
	assert.Equal(t, 1, active)

	require.NoError(t, f.svc.Deactivate(ctx, second))
	_, err = f.svc.ActiveReport(ctx, f.tenderID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesRequestAndDetails(t *testing.T) {
	f := newRedistributionFixture(t)
	ctx := context.Background()

	resp, err := f.svc.BuildAndSubmit(ctx, f.tenderID, dto.CreateRedistributionRequest{
		Name:    "short lived",
		Sources: []dto.WithdrawalEntry{pctEntry(f.detailA, "10")},
		Targets: []dto.TargetEntry{targetEntry(f.detailC)},
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, id))
	_, err = f.svc.Details(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestActiveReportShowsPerPositionAdjustments(t *testing.T) {
	f := newRedistributionFixture(t)
	ctx := context.Background()

	resp, err := f.svc.BuildAndSubmit(ctx, f.tenderID, dto.CreateRedistributionRequest{
		Name:    "prep to structure",
		Sources: []dto.WithdrawalEntry{pctEntry(f.detailA, "25"), pctEntry(f.detailB, "25")},
		Targets: []dto.TargetEntry{targetEntry(f.detailC, f.detailD)},
	})
	require.NoError(t, err)
	requestID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Activate(ctx, requestID))

	report, err := f.svc.ActiveReport(ctx, f.tenderID)
	require.NoError(t, err)
	assert.Equal(t, requestID.String(), report.RequestID)
	require.Len(t, report.Positions, 2)

	byTitle := make(map[string]dto.PositionAdjustmentRow)
	for _, row := range report.Positions {
		byTitle[row.PositionTitle] = row
	}
	prep, structure := byTitle["Preparation"], byTitle["Structure"]
	assert.True(t, prep.OriginalWorksCost.Equal(decimal.NewFromInt(400)))
	assert.True(t, prep.Adjustment.Equal(decimal.NewFromInt(-100)))
	assert.True(t, structure.OriginalWorksCost.Equal(decimal.NewFromInt(400)))
	assert.True(t, structure.Adjustment.Equal(decimal.NewFromInt(100)))
}

func TestDetailsUnknownRequest(t *testing.T) {
	f := newRedistributionFixture(t)
	_, err := f.svc.Details(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
