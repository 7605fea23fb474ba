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

type tenderFixture struct {
	svc        TenderService
	dispatcher *fakeDispatcher
	items      *fakeLineItemRepo
	tenderID   uuid.UUID
	positionID uuid.UUID
	detailID   uuid.UUID
}

func newTenderFixture(t *testing.T) *tenderFixture {
	t.Helper()
	ctx := context.Background()

	tenderRepo := newFakeTenderRepo()
	itemRepo := newFakeLineItemRepo()
	profileRepo := newFakeProfileRepo()
	categoryRepo := newFakeCategoryRepo()
	dispatcher := &fakeDispatcher{}

	tender := &model.Tender{Name: "Depot"}
	require.NoError(t, tenderRepo.Create(ctx, tender))
	position := &model.Position{TenderID: tender.ID, Number: 1, Title: "Earthworks"}
	require.NoError(t, tenderRepo.CreatePosition(ctx, position))

	category := &model.CostCategory{
		TenderID: tender.ID,
		Name:     "General",
		Details:  []model.DetailCostCategory{{Name: "Misc"}},
	}
	require.NoError(t, categoryRepo.CreateWithDetails(ctx, category))

	return &tenderFixture{
		svc:        NewTenderService(tenderRepo, itemRepo, profileRepo, categoryRepo, dispatcher),
		dispatcher: dispatcher,
		items:      itemRepo,
		tenderID:   tender.ID,
		positionID: position.ID,
		detailID:   category.Details[0].ID,
	}
}

func strptr(s string) *string { return &s }

func TestCreateLineItemSchedulesRecompute(t *testing.T) {
	f := newTenderFixture(t)

	resp, err := f.svc.CreateLineItem(context.Background(), f.positionID, dto.CreateLineItemRequest{
		Description: "excavation",
		ItemKind:    string(costing.KindWork),
		Quantity:    decimal.NewFromInt(100),
		UnitRate:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, string(costing.KindWork), resp.ItemKind)
	require.NotNil(t, resp.PositionID)
	assert.Equal(t, f.positionID.String(), *resp.PositionID)

	require.Len(t, f.dispatcher.positionRecomputes, 1)
	assert.Equal(t, f.positionID.String(), f.dispatcher.positionRecomputes[0])
}

func TestCreateLineItemMaterialRequiresSubtype(t *testing.T) {
	f := newTenderFixture(t)

	_, err := f.svc.CreateLineItem(context.Background(), f.positionID, dto.CreateLineItemRequest{
		Description: "rebar",
		ItemKind:    string(costing.KindMaterial),
		Quantity:    decimal.NewFromInt(1),
		UnitRate:    decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateLineItemWorkRejectsMaterialFields(t *testing.T) {
	f := newTenderFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description:     "concrete pour",
		ItemKind:        string(costing.KindWork),
		MaterialSubtype: strptr("main"),
		Quantity:        decimal.NewFromInt(1),
		UnitRate:        decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description:  "concrete pour",
		ItemKind:     string(costing.KindWork),
		DeliveryMode: strptr("fixed_amount"),
		Quantity:     decimal.NewFromInt(1),
		UnitRate:     decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateLineItemLinksMaterialToWork(t *testing.T) {
	f := newTenderFixture(t)
	ctx := context.Background()

	work, err := f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description: "masonry",
		ItemKind:    string(costing.KindWork),
		Quantity:    decimal.NewFromInt(10),
		UnitRate:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	consumption := decimal.RequireFromString("1.5")
	material, err := f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description:            "bricks",
		ItemKind:               string(costing.KindMaterial),
		MaterialSubtype:        strptr("main"),
		WorkItemID:             &work.ID,
		ConsumptionCoefficient: &consumption,
		Quantity:               decimal.NewFromInt(1),
		UnitRate:               decimal.NewFromInt(20),
		DetailCategoryID:       strptr(f.detailID.String()),
	})
	require.NoError(t, err)
	require.NotNil(t, material.WorkItemID)
	assert.Equal(t, work.ID, *material.WorkItemID)
}

func TestCreateLineItemRejectsLinkToNonWork(t *testing.T) {
	f := newTenderFixture(t)
	ctx := context.Background()

	aux, err := f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description:     "sand",
		ItemKind:        string(costing.KindMaterial),
		MaterialSubtype: strptr("auxiliary"),
		Quantity:        decimal.NewFromInt(1),
		UnitRate:        decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	_, err = f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description:     "cement",
		ItemKind:        string(costing.KindMaterial),
		MaterialSubtype: strptr("main"),
		WorkItemID:      &aux.ID,
		Quantity:        decimal.NewFromInt(1),
		UnitRate:        decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateLineItemUnknownDetailCategory(t *testing.T) {
	f := newTenderFixture(t)

	_, err := f.svc.CreateLineItem(context.Background(), f.positionID, dto.CreateLineItemRequest{
		Description:      "gravel",
		ItemKind:         string(costing.KindMaterial),
		MaterialSubtype:  strptr("auxiliary"),
		DetailCategoryID: strptr(uuid.NewString()),
		Quantity:         decimal.NewFromInt(1),
		UnitRate:         decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateLineItemAppliesPartialChanges(t *testing.T) {
	f := newTenderFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description: "paving",
		ItemKind:    string(costing.KindWork),
		Quantity:    decimal.NewFromInt(10),
		UnitRate:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	itemID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	newQty := decimal.NewFromInt(25)
	updated, err := f.svc.UpdateLineItem(ctx, itemID, dto.UpdateLineItemRequest{Quantity: &newQty})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(newQty))
	assert.Equal(t, "paving", updated.Description, "untouched fields keep their value")

	// one recompute for the create, one for the update
	assert.Len(t, f.dispatcher.positionRecomputes, 2)
}

func TestUpdateLineItemRejectsDeliveryOnWork(t *testing.T) {
	f := newTenderFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateLineItem(ctx, f.positionID, dto.CreateLineItemRequest{
		Description: "drainage",
		ItemKind:    string(costing.KindWork),
		Quantity:    decimal.NewFromInt(1),
		UnitRate:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	itemID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateLineItem(ctx, itemID, dto.UpdateLineItemRequest{DeliveryMode: strptr("not_included")})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreatePositionUnknownTender(t *testing.T) {
	f := newTenderFixture(t)

	_, err := f.svc.CreatePosition(context.Background(), uuid.New(), dto.CreatePositionRequest{Number: 1, Title: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}
