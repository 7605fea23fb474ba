package dto

import "github.com/shopspring/decimal"

// UpdateMarkupProfileRequest carries partial percentage updates; nil
// fields keep their current value.
type UpdateMarkupProfileRequest struct {
	MechanizationService           *decimal.Decimal `json:"mechanization_service"`
	MbpGsm                         *decimal.Decimal `json:"mbp_gsm"`
	WarrantyPeriod                 *decimal.Decimal `json:"warranty_period"`
	Works16Markup                  *decimal.Decimal `json:"works_16_markup"`
	WorksCostGrowth                *decimal.Decimal `json:"works_cost_growth"`
	MaterialsCostGrowth            *decimal.Decimal `json:"materials_cost_growth"`
	SubcontractWorksCostGrowth     *decimal.Decimal `json:"subcontract_works_cost_growth"`
	SubcontractMaterialsCostGrowth *decimal.Decimal `json:"subcontract_materials_cost_growth"`
	ContingencyCosts               *decimal.Decimal `json:"contingency_costs"`
	OverheadOwnForces              *decimal.Decimal `json:"overhead_own_forces"`
	OverheadSubcontract            *decimal.Decimal `json:"overhead_subcontract"`
	GeneralCostsWithoutSubcontract *decimal.Decimal `json:"general_costs_without_subcontract"`
	ProfitOwnForces                *decimal.Decimal `json:"profit_own_forces"`
	ProfitSubcontract              *decimal.Decimal `json:"profit_subcontract"`
}

type MarkupProfileResponse struct {
	ID       string `json:"id"`
	TenderID string `json:"tender_id"`
	IsActive bool   `json:"is_active"`

	MechanizationService           decimal.Decimal `json:"mechanization_service"`
	MbpGsm                         decimal.Decimal `json:"mbp_gsm"`
	WarrantyPeriod                 decimal.Decimal `json:"warranty_period"`
	Works16Markup                  decimal.Decimal `json:"works_16_markup"`
	WorksCostGrowth                decimal.Decimal `json:"works_cost_growth"`
	MaterialsCostGrowth            decimal.Decimal `json:"materials_cost_growth"`
	SubcontractWorksCostGrowth     decimal.Decimal `json:"subcontract_works_cost_growth"`
	SubcontractMaterialsCostGrowth decimal.Decimal `json:"subcontract_materials_cost_growth"`
	ContingencyCosts               decimal.Decimal `json:"contingency_costs"`
	OverheadOwnForces              decimal.Decimal `json:"overhead_own_forces"`
	OverheadSubcontract            decimal.Decimal `json:"overhead_subcontract"`
	GeneralCostsWithoutSubcontract decimal.Decimal `json:"general_costs_without_subcontract"`
	ProfitOwnForces                decimal.Decimal `json:"profit_own_forces"`
	ProfitSubcontract              decimal.Decimal `json:"profit_subcontract"`
}
