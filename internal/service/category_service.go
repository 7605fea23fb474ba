package service

import (
	"context"
	"fmt"

	"tenderhub/internal/dto"
	"tenderhub/internal/model"
	"tenderhub/internal/repository"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, tenderID uuid.UUID, req dto.CreateCostCategoryRequest) (*dto.CostCategoryResponse, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]dto.CostCategoryResponse, error)
}

type categoryService struct {
	categoryRepo repository.CostCategoryRepository
	tenderRepo   repository.TenderRepository
}

func NewCategoryService(
	categoryRepo repository.CostCategoryRepository,
	tenderRepo repository.TenderRepository,
) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, tenderRepo: tenderRepo}
}

func (s *categoryService) Create(ctx context.Context, tenderID uuid.UUID, req dto.CreateCostCategoryRequest) (*dto.CostCategoryResponse, error) {
	if _, err := s.tenderRepo.FindByID(ctx, tenderID); err != nil {
		return nil, fmt.Errorf("%w: tender %s", ErrNotFound, tenderID)
	}

	seen := make(map[string]bool, len(req.Details))
	for _, name := range req.Details {
		if seen[name] {
			return nil, validationf("duplicate detail category %q", name)
		}
		seen[name] = true
	}

	category := &model.CostCategory{
		TenderID: tenderID,
		Name:     req.Name,
		Details:  make([]model.DetailCostCategory, 0, len(req.Details)),
	}
	for _, name := range req.Details {
		category.Details = append(category.Details, model.DetailCostCategory{Name: name})
	}

	if err := s.categoryRepo.CreateWithDetails(ctx, category); err != nil {
		return nil, err
	}
	resp := categoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]dto.CostCategoryResponse, error) {
	categories, err := s.categoryRepo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CostCategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, categoryToResponse(&categories[i]))
	}
	return out, nil
}

func categoryToResponse(c *model.CostCategory) dto.CostCategoryResponse {
	resp := dto.CostCategoryResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Details: make([]dto.DetailCategoryResponse, 0, len(c.Details)),
	}
	for _, d := range c.Details {
		resp.Details = append(resp.Details, dto.DetailCategoryResponse{ID: d.ID.String(), Name: d.Name})
	}
	return resp
}
