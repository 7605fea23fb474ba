package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateLineItemRequest struct {
	Description      string  `json:"description"        validate:"required,min=1,max=500"`
	ItemKind         string  `json:"item_kind"          validate:"required,oneof=work subcontract_work material subcontract_material"`
	MaterialSubtype  *string `json:"material_subtype"   validate:"omitempty,oneof=main auxiliary"`
	DetailCategoryID *string `json:"detail_category_id" validate:"omitempty,uuid"`

	Quantity           decimal.Decimal  `json:"quantity"            validate:"required"`
	UnitRate           decimal.Decimal  `json:"unit_rate"           validate:"required"`
	CurrencyMultiplier *decimal.Decimal `json:"currency_multiplier"`

	DeliveryMode          *string          `json:"delivery_mode" validate:"omitempty,oneof=included not_included fixed_amount"`
	DeliveryAmountPerUnit *decimal.Decimal `json:"delivery_amount_per_unit"`

	WorkItemID             *string          `json:"work_item_id" validate:"omitempty,uuid"`
	ConsumptionCoefficient *decimal.Decimal `json:"consumption_coefficient"`
	ConversionCoefficient  *decimal.Decimal `json:"conversion_coefficient"`
}

type UpdateLineItemRequest struct {
	Description      *string `json:"description"        validate:"omitempty,min=1,max=500"`
	DetailCategoryID *string `json:"detail_category_id" validate:"omitempty,uuid"`

	Quantity           *decimal.Decimal `json:"quantity"`
	UnitRate           *decimal.Decimal `json:"unit_rate"`
	CurrencyMultiplier *decimal.Decimal `json:"currency_multiplier"`

	DeliveryMode          *string          `json:"delivery_mode" validate:"omitempty,oneof=included not_included fixed_amount"`
	DeliveryAmountPerUnit *decimal.Decimal `json:"delivery_amount_per_unit"`

	WorkItemID             *string          `json:"work_item_id" validate:"omitempty,uuid"`
	ConsumptionCoefficient *decimal.Decimal `json:"consumption_coefficient"`
	ConversionCoefficient  *decimal.Decimal `json:"conversion_coefficient"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineItemResponse struct {
	ID                    string          `json:"id"`
	TenderID              string          `json:"tender_id"`
	PositionID            *string         `json:"position_id"`
	DetailCategoryID      *string         `json:"detail_category_id"`
	Description           string          `json:"description"`
	ItemKind              string          `json:"item_kind"`
	MaterialSubtype       string          `json:"material_subtype,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitRate              decimal.Decimal `json:"unit_rate"`
	CurrencyMultiplier    decimal.Decimal `json:"currency_multiplier"`
	DeliveryMode          string          `json:"delivery_mode"`
	DeliveryAmountPerUnit decimal.Decimal `json:"delivery_amount_per_unit"`
	WorkItemID            *string         `json:"work_item_id"`
	CommercialCost        decimal.Decimal `json:"commercial_cost"`
	MarkupCoefficient     decimal.Decimal `json:"markup_coefficient"`
}
