package costing

// ItemKind classifies a BOQ line item. The markup cascade, the delivery
// surcharge and the work/material attribution all dispatch on it.
type ItemKind string

const (
	KindWork                ItemKind = "work"
	KindSubcontractWork     ItemKind = "subcontract_work"
	KindMaterial            ItemKind = "material"
	KindSubcontractMaterial ItemKind = "subcontract_material"
)

// IsMaterial reports whether the kind participates in linked-quantity
// resolution and delivery surcharges.
func (k ItemKind) IsMaterial() bool {
	return k == KindMaterial || k == KindSubcontractMaterial
}

// IsWork reports whether the kind can be the target of a work link.
func (k ItemKind) IsWork() bool {
	return k == KindWork || k == KindSubcontractWork
}

func (k ItemKind) Valid() bool {
	switch k {
	case KindWork, KindSubcontractWork, KindMaterial, KindSubcontractMaterial:
		return true
	}
	return false
}

// MaterialSubtype refines material kinds. Empty for work kinds.
type MaterialSubtype string

const (
	SubtypeNone      MaterialSubtype = ""
	SubtypeMain      MaterialSubtype = "main"
	SubtypeAuxiliary MaterialSubtype = "auxiliary"
)

// DeliveryMode controls the material delivery surcharge.
type DeliveryMode string

const (
	DeliveryIncluded    DeliveryMode = "included"
	DeliveryNotIncluded DeliveryMode = "not_included"
	DeliveryFixedAmount DeliveryMode = "fixed_amount"
)
