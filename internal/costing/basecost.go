package costing

import "github.com/shopspring/decimal"

// coeffOrOne normalizes an unset (zero) coefficient to 1.
func coeffOrOne(c decimal.Decimal) decimal.Decimal {
	if c.IsZero() {
		return one
	}
	return c
}

// ResolveBase computes the pre-markup monetary base for one line item.
//
// Material items with a work link derive their quantity from the linked
// work item: work.quantity * consumption * conversion. A dangling link
// (work item not among the siblings, or pointing at a non-work item)
// falls back to the item's own quantity — operators routinely delete
// works after linking materials, so this is a soft failure.
//
// The delivery surcharge applies to material kinds only, as
// deliveryAmountPerUnit * quantity for both the fixed_amount and
// not_included modes.
func ResolveBase(item Item, siblings []Item) decimal.Decimal {
	qty := item.Quantity

	if item.Kind.IsMaterial() && item.Link != nil {
		for _, sib := range siblings {
			if sib.ID == item.Link.WorkItemID && sib.Kind.IsWork() {
				qty = sib.Quantity.
					Mul(coeffOrOne(item.Link.ConsumptionCoefficient)).
					Mul(coeffOrOne(item.Link.ConversionCoefficient))
				break
			}
		}
	}

	base := qty.Mul(item.UnitRate).Mul(coeffOrOne(item.CurrencyMultiplier))

	if item.Kind.IsMaterial() &&
		(item.DeliveryMode == DeliveryFixedAmount || item.DeliveryMode == DeliveryNotIncluded) &&
		item.DeliveryAmountPerUnit.IsPositive() {
		base = base.Add(item.DeliveryAmountPerUnit.Mul(qty))
	}

	return base
}
