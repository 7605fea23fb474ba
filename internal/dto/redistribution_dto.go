package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// WithdrawalEntry names its donors either explicitly (detail ids) or as
// a whole cost category ("all its detail leaves"). Exactly one of the
// two forms must be used per entry.
type WithdrawalEntry struct {
	DetailCategoryIDs []string        `json:"detail_category_ids" validate:"omitempty,dive,uuid"`
	CategoryID        *string         `json:"category_id"         validate:"omitempty,uuid"`
	Percent           decimal.Decimal `json:"percent"             validate:"required"`
}

// TargetEntry names receivers the same way, without a percent.
type TargetEntry struct {
	DetailCategoryIDs []string `json:"detail_category_ids" validate:"omitempty,dive,uuid"`
	CategoryID        *string  `json:"category_id"         validate:"omitempty,uuid"`
}

type CreateRedistributionRequest struct {
	Name    string            `json:"name"    validate:"required,min=1,max=200"`
	Sources []WithdrawalEntry `json:"sources" validate:"required,min=1"`
	Targets []TargetEntry     `json:"targets" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RedistributionSourceResponse struct {
	DetailCategoryID string          `json:"detail_category_id"`
	Percent          decimal.Decimal `json:"percent"`
}

type RedistributionResponse struct {
	ID        string                         `json:"id"`
	TenderID  string                         `json:"tender_id"`
	Name      string                         `json:"name"`
	IsActive  bool                           `json:"is_active"`
	Sources   []RedistributionSourceResponse `json:"sources"`
	TargetIDs []string                       `json:"target_ids"`
	CreatedAt string                         `json:"created_at"`
}

type RedistributionDetailResponse struct {
	LineItemID                  string          `json:"line_item_id"`
	OriginalCommercialCost      decimal.Decimal `json:"original_commercial_cost"`
	RedistributedCommercialCost decimal.Decimal `json:"redistributed_commercial_cost"`
	AdjustmentAmount            decimal.Decimal `json:"adjustment_amount"`
}

// PositionAdjustmentRow is one row of the reconciliation report: the
// position's works cost before and after the active redistribution.
type PositionAdjustmentRow struct {
	PositionID             string          `json:"position_id"`
	PositionTitle          string          `json:"position_title"`
	OriginalWorksCost      decimal.Decimal `json:"original_works_cost"`
	RedistributedWorksCost decimal.Decimal `json:"redistributed_works_cost"`
	Adjustment             decimal.Decimal `json:"adjustment"`
}

type RedistributionReportResponse struct {
	RequestID   string                  `json:"request_id"`
	RequestName string                  `json:"request_name"`
	Positions   []PositionAdjustmentRow `json:"positions"`
}
