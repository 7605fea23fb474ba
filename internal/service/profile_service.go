package service

import (
	"context"
	"errors"
	"fmt"

	"tenderhub/internal/dto"
	"tenderhub/internal/model"
	"tenderhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetActive(ctx context.Context, tenderID uuid.UUID) (*dto.MarkupProfileResponse, error)

	// Update applies a partial percentage update to the tender's active
	// profile and schedules a full-tender recompute.
	Update(ctx context.Context, tenderID uuid.UUID, req dto.UpdateMarkupProfileRequest) (*dto.MarkupProfileResponse, error)
}

type profileService struct {
	profileRepo repository.MarkupProfileRepository
	tenderRepo  repository.TenderRepository
	dispatcher  RecomputeDispatcher
}

func NewProfileService(
	profileRepo repository.MarkupProfileRepository,
	tenderRepo repository.TenderRepository,
	dispatcher RecomputeDispatcher,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		tenderRepo:  tenderRepo,
		dispatcher:  dispatcher,
	}
}

func (s *profileService) GetActive(ctx context.Context, tenderID uuid.UUID) (*dto.MarkupProfileResponse, error) {
	profile, err := s.profileRepo.FindActiveByTender(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active markup profile for tender %s", ErrNotFound, tenderID)
		}
		return nil, err
	}
	return profileToResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, tenderID uuid.UUID, req dto.UpdateMarkupProfileRequest) (*dto.MarkupProfileResponse, error) {
	if _, err := s.tenderRepo.FindByID(ctx, tenderID); err != nil {
		return nil, fmt.Errorf("%w: tender %s", ErrNotFound, tenderID)
	}

	profile, err := s.profileRepo.FindActiveByTender(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active markup profile for tender %s", ErrNotFound, tenderID)
		}
		return nil, err
	}

	if err := applyRates(profile, req); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	// Every persisted commercial cost is now stale.
	if err := s.dispatcher.EnqueueTenderRecompute(ctx, tenderID.String()); err != nil {
		log.Error().
			Str("tender_id", tenderID.String()).
			Err(err).
			Msg("failed to enqueue recompute after profile update")
	}

	return profileToResponse(profile), nil
}

// applyRates copies non-nil percentages onto the profile, rejecting
// negatives before anything is persisted.
func applyRates(p *model.MarkupProfile, req dto.UpdateMarkupProfileRequest) error {
	fields := []struct {
		name string
		src  *decimal.Decimal
		dst  *decimal.Decimal
	}{
		{"mechanization_service", req.MechanizationService, &p.Rates.MechanizationService},
		{"mbp_gsm", req.MbpGsm, &p.Rates.MbpGsm},
		{"warranty_period", req.WarrantyPeriod, &p.Rates.WarrantyPeriod},
		{"works_16_markup", req.Works16Markup, &p.Rates.Works16Markup},
		{"works_cost_growth", req.WorksCostGrowth, &p.Rates.WorksCostGrowth},
		{"materials_cost_growth", req.MaterialsCostGrowth, &p.Rates.MaterialsCostGrowth},
		{"subcontract_works_cost_growth", req.SubcontractWorksCostGrowth, &p.Rates.SubcontractWorksCostGrowth},
		{"subcontract_materials_cost_growth", req.SubcontractMaterialsCostGrowth, &p.Rates.SubcontractMaterialsCostGrowth},
		{"contingency_costs", req.ContingencyCosts, &p.Rates.ContingencyCosts},
		{"overhead_own_forces", req.OverheadOwnForces, &p.Rates.OverheadOwnForces},
		{"overhead_subcontract", req.OverheadSubcontract, &p.Rates.OverheadSubcontract},
		{"general_costs_without_subcontract", req.GeneralCostsWithoutSubcontract, &p.Rates.GeneralCostsWithoutSubcontract},
		{"profit_own_forces", req.ProfitOwnForces, &p.Rates.ProfitOwnForces},
		{"profit_subcontract", req.ProfitSubcontract, &p.Rates.ProfitSubcontract},
	}
	for _, f := range fields {
		if f.src != nil && f.src.IsNegative() {
			return validationf("%s must not be negative", f.name)
		}
	}
	for _, f := range fields {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return nil
}

func profileToResponse(p *model.MarkupProfile) *dto.MarkupProfileResponse {
	return &dto.MarkupProfileResponse{
		ID:       p.ID.String(),
		TenderID: p.TenderID.String(),
		IsActive: p.IsActive,

		MechanizationService:           p.Rates.MechanizationService,
		MbpGsm:                         p.Rates.MbpGsm,
		WarrantyPeriod:                 p.Rates.WarrantyPeriod,
		Works16Markup:                  p.Rates.Works16Markup,
		WorksCostGrowth:                p.Rates.WorksCostGrowth,
		MaterialsCostGrowth:            p.Rates.MaterialsCostGrowth,
		SubcontractWorksCostGrowth:     p.Rates.SubcontractWorksCostGrowth,
		SubcontractMaterialsCostGrowth: p.Rates.SubcontractMaterialsCostGrowth,
		ContingencyCosts:               p.Rates.ContingencyCosts,
		OverheadOwnForces:              p.Rates.OverheadOwnForces,
		OverheadSubcontract:            p.Rates.OverheadSubcontract,
		GeneralCostsWithoutSubcontract: p.Rates.GeneralCostsWithoutSubcontract,
		ProfitOwnForces:                p.Rates.ProfitOwnForces,
		ProfitSubcontract:              p.Rates.ProfitSubcontract,
	}
}
