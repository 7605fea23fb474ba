package dto

import "github.com/shopspring/decimal"

// ─── Preview ─────────────────────────────────────────────────────────────────

// PreviewRequest computes a commercial cost for an ad-hoc item against a
// tender's active markup profile without persisting anything. Import
// wizards use it to show marked-up prices before committing rows.
type PreviewRequest struct {
	TenderID string `json:"tender_id" validate:"required,uuid"`
	// PositionID scopes work-link resolution to that position's items.
	PositionID *string               `json:"position_id" validate:"omitempty,uuid"`
	Item       CreateLineItemRequest `json:"item"        validate:"required"`
}

type PreviewResponse struct {
	BaseCost              decimal.Decimal `json:"base_cost"`
	CommercialCost        decimal.Decimal `json:"commercial_cost"`
	MarkupCoefficient     decimal.Decimal `json:"markup_coefficient"`
	WorksContribution     decimal.Decimal `json:"works_contribution"`
	MaterialsContribution decimal.Decimal `json:"materials_contribution"`
}

// ─── Recompute ───────────────────────────────────────────────────────────────

// RecomputeResponse reports a batch recompute. A non-empty FailedIDs
// still means the batch completed — per-item failures never abort the
// remaining items.
type RecomputeResponse struct {
	Computed  int      `json:"computed"`
	Skipped   int      `json:"skipped"` // items whose base resolved to <= 0
	FailedIDs []string `json:"failed_ids,omitempty"`
	Warning   string   `json:"warning,omitempty"`
}

// ─── Cost report ─────────────────────────────────────────────────────────────

type PositionCostRow struct {
	PositionID     string          `json:"position_id"`
	PositionTitle  string          `json:"position_title"`
	WorksCost      decimal.Decimal `json:"works_cost"`
	MaterialsCost  decimal.Decimal `json:"materials_cost"`
	CommercialCost decimal.Decimal `json:"commercial_cost"`
}

type TenderCostReport struct {
	TenderID       string            `json:"tender_id"`
	Positions      []PositionCostRow `json:"positions"`
	WorksCost      decimal.Decimal   `json:"works_cost"`
	MaterialsCost  decimal.Decimal   `json:"materials_cost"`
	CommercialCost decimal.Decimal   `json:"commercial_cost"`
}
