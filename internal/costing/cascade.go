package costing

import "github.com/shopspring/decimal"

// Each cascade materializes its intermediate stages in a record so the
// shared sub-expressions (work16, mbpGsm reused by three later stages)
// are computed exactly once and can be inspected in previews.

// WorkStages holds the intermediate values of the own-forces work cascade.
type WorkStages struct {
	Base           decimal.Decimal `json:"base"`
	Mechanization  decimal.Decimal `json:"mechanization"`
	MbpGsm         decimal.Decimal `json:"mbp_gsm"`
	Warranty       decimal.Decimal `json:"warranty"`
	Work16         decimal.Decimal `json:"work_16"`
	Growth         decimal.Decimal `json:"growth"`
	Contingency    decimal.Decimal `json:"contingency"`
	OverheadOwn    decimal.Decimal `json:"overhead_own"`
	GeneralCosts   decimal.Decimal `json:"general_costs"`
	Profit         decimal.Decimal `json:"profit"`
	CommercialCost decimal.Decimal `json:"commercial_cost"`
}

// WorkCascade applies the full nine-stage own-forces pipeline.
// Callers must guard base > 0.
func WorkCascade(base decimal.Decimal, p Profile) WorkStages {
	s := WorkStages{Base: base}
	s.Mechanization = share(base, p.MechanizationService)
	s.MbpGsm = share(base, p.MbpGsm)
	s.Warranty = share(base, p.WarrantyPeriod)
	s.Work16 = base.Add(s.Mechanization).Mul(mult(p.Works16Markup))
	s.Growth = s.Work16.Add(s.MbpGsm).Mul(mult(p.WorksCostGrowth))
	s.Contingency = s.Work16.Add(s.MbpGsm).Mul(mult(p.ContingencyCosts))
	s.OverheadOwn = s.Growth.Add(s.Contingency).Sub(s.Work16).Sub(s.MbpGsm).Mul(mult(p.OverheadOwnForces))
	s.GeneralCosts = s.OverheadOwn.Mul(mult(p.GeneralCostsWithoutSubcontract))
	s.Profit = s.GeneralCosts.Mul(mult(p.ProfitOwnForces))
	s.CommercialCost = s.Profit.Add(s.Warranty)
	return s
}

// SubcontractStages holds the three-stage subcontract pipeline shared by
// subcontract works and subcontract materials (which differ only in the
// growth percentage applied).
type SubcontractStages struct {
	Base           decimal.Decimal `json:"base"`
	Growth         decimal.Decimal `json:"growth"`
	Overhead       decimal.Decimal `json:"overhead"`
	CommercialCost decimal.Decimal `json:"commercial_cost"`
}

func subcontractCascade(base, growthPct decimal.Decimal, p Profile) SubcontractStages {
	s := SubcontractStages{Base: base}
	s.Growth = base.Mul(mult(growthPct))
	s.Overhead = s.Growth.Mul(mult(p.OverheadSubcontract))
	s.CommercialCost = s.Overhead.Mul(mult(p.ProfitSubcontract))
	return s
}

// SubcontractWorkCascade applies growth → overhead → profit with the
// subcontract works growth percentage.
func SubcontractWorkCascade(base decimal.Decimal, p Profile) SubcontractStages {
	return subcontractCascade(base, p.SubcontractWorksCostGrowth, p)
}

// SubcontractMaterialCascade mirrors SubcontractWorkCascade with the
// subcontract materials growth percentage. The attribution split later
// keeps base in the materials bucket and moves the chain markup to works.
func SubcontractMaterialCascade(base decimal.Decimal, p Profile) SubcontractStages {
	return subcontractCascade(base, p.SubcontractMaterialsCostGrowth, p)
}

// MaterialStages holds the five-stage own-forces material pipeline,
// applied identically for main and auxiliary subtypes.
type MaterialStages struct {
	Base           decimal.Decimal `json:"base"`
	Growth         decimal.Decimal `json:"growth"`
	Contingency    decimal.Decimal `json:"contingency"`
	OverheadOwn    decimal.Decimal `json:"overhead_own"`
	GeneralCosts   decimal.Decimal `json:"general_costs"`
	CommercialCost decimal.Decimal `json:"commercial_cost"`
}

// MaterialCascade applies growth/contingency in parallel off the base,
// then overhead → general costs → profit on the combined markup.
func MaterialCascade(base decimal.Decimal, p Profile) MaterialStages {
	s := MaterialStages{Base: base}
	s.Growth = base.Mul(mult(p.MaterialsCostGrowth))
	s.Contingency = base.Mul(mult(p.ContingencyCosts))
	s.OverheadOwn = s.Growth.Add(s.Contingency).Sub(base).Mul(mult(p.OverheadOwnForces))
	s.GeneralCosts = s.OverheadOwn.Mul(mult(p.GeneralCostsWithoutSubcontract))
	s.CommercialCost = s.GeneralCosts.Mul(mult(p.ProfitOwnForces))
	return s
}
