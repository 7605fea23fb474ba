// Package costing implements the commercial cost engine: base-cost
// resolution, the per-kind markup cascades and the work/material
// attribution split. Everything here is pure arithmetic over
// shopspring decimals — no I/O, no shared state — so callers may run
// Compute for any number of items concurrently.
package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// mult turns a percentage into a (1 + p/100) multiplier.
func mult(pct decimal.Decimal) decimal.Decimal {
	return one.Add(pct.Div(hundred))
}

// share returns base * pct/100.
func share(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// WorkLink ties a material item's quantity to a work item of the same
// position. Coefficients default to 1 when left at zero.
type WorkLink struct {
	WorkItemID             uuid.UUID
	ConsumptionCoefficient decimal.Decimal
	ConversionCoefficient  decimal.Decimal
}

// Item is the calculator's view of a BOQ line item.
type Item struct {
	ID                    uuid.UUID
	Kind                  ItemKind
	Subtype               MaterialSubtype
	Quantity              decimal.Decimal
	UnitRate              decimal.Decimal
	CurrencyMultiplier    decimal.Decimal // 1 for local currency; 0 treated as 1
	DeliveryMode          DeliveryMode
	DeliveryAmountPerUnit decimal.Decimal
	Link                  *WorkLink
}

// Profile holds the tender's active markup percentages. All values are
// plain percentages: 8 means 8%.
type Profile struct {
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

// DefaultProfile returns the percentages a fresh tender starts with.
func DefaultProfile() Profile {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return Profile{
		MechanizationService:           pct("8"),
		MbpGsm:                         pct("2"),
		WarrantyPeriod:                 pct("1.5"),
		Works16Markup:                  pct("60"),
		WorksCostGrowth:                pct("5"),
		MaterialsCostGrowth:            pct("3"),
		SubcontractWorksCostGrowth:     pct("5"),
		SubcontractMaterialsCostGrowth: pct("3"),
		ContingencyCosts:               pct("2"),
		OverheadOwnForces:              pct("8"),
		OverheadSubcontract:            pct("6"),
		GeneralCostsWithoutSubcontract: pct("5"),
		ProfitOwnForces:                pct("12"),
		ProfitSubcontract:              pct("8"),
	}
}

// Breakdown is the result of a full commercial cost computation for one
// item. WorksContribution + MaterialsContribution always equals
// CommercialCost exactly.
type Breakdown struct {
	Base                  decimal.Decimal
	CommercialCost        decimal.Decimal
	MarkupCoefficient     decimal.Decimal // CommercialCost / Base; zero when Base <= 0
	WorksContribution     decimal.Decimal
	MaterialsContribution decimal.Decimal
}

// Compute resolves the item's base cost against its position siblings,
// runs the kind-specific markup cascade and splits the result into the
// works and materials buckets. A non-positive base short-circuits to an
// all-zero breakdown (the coefficient is left at zero rather than
// dividing by zero).
func Compute(item Item, siblings []Item, p Profile) Breakdown {
	base := ResolveBase(item, siblings)
	if !base.IsPositive() {
		return Breakdown{Base: base}
	}

	var commercial decimal.Decimal
	switch item.Kind {
	case KindWork:
		commercial = WorkCascade(base, p).CommercialCost
	case KindSubcontractWork:
		commercial = SubcontractWorkCascade(base, p).CommercialCost
	case KindMaterial:
		commercial = MaterialCascade(base, p).CommercialCost
	case KindSubcontractMaterial:
		commercial = SubcontractMaterialCascade(base, p).CommercialCost
	default:
		return Breakdown{Base: base}
	}

	works, materials := Split(item.Kind, item.Subtype, base, commercial)
	return Breakdown{
		Base:                  base,
		CommercialCost:        commercial,
		MarkupCoefficient:     commercial.Div(base),
		WorksContribution:     works,
		MaterialsContribution: materials,
	}
}
