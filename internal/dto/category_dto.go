package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCostCategoryRequest struct {
	Name    string   `json:"name"    validate:"required,min=1,max=200"`
	Details []string `json:"details" validate:"required,min=1,dive,min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetailCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CostCategoryResponse struct {
	ID      string                   `json:"id"`
	Name    string                   `json:"name"`
	Details []DetailCategoryResponse `json:"details"`
}
