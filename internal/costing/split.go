package costing

import "github.com/shopspring/decimal"

// Split attributes a computed commercial cost to the works and materials
// reporting buckets:
//
//	work kinds               → all works
//	material, subtype main   → markup (commercial − base) to works, base to materials
//	material, aux subtype    → all works
//
// The two buckets always sum to commercial exactly; position and tender
// totals are sums of these per-item contributions and nothing else.
func Split(kind ItemKind, subtype MaterialSubtype, base, commercial decimal.Decimal) (works, materials decimal.Decimal) {
	if kind.IsMaterial() && subtype == SubtypeMain {
		return commercial.Sub(base), base
	}
	return commercial, decimal.Zero
}
