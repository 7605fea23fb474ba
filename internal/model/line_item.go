package model

import (
	"time"

	"tenderhub/internal/costing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one BOQ entry. CommercialCost and MarkupCoefficient are
// the last computed engine outputs; they are rewritten whenever the
// quantity, rate or markup profile changes.
type LineItem struct {
	ID               uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenderID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	PositionID       *uuid.UUID              `gorm:"type:uuid;index"`
	DetailCategoryID *uuid.UUID              `gorm:"type:uuid;index"`
	Description      string                  `gorm:"not null"`
	ItemKind         costing.ItemKind        `gorm:"not null;index"`
	MaterialSubtype  costing.MaterialSubtype // empty for work kinds

	Quantity           decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UnitRate           decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	CurrencyMultiplier decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`

	DeliveryMode          costing.DeliveryMode `gorm:"not null;default:'included'"`
	DeliveryAmountPerUnit decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`

	// Work link — material kinds only
	WorkItemID             *uuid.UUID      `gorm:"type:uuid;index"`
	ConsumptionCoefficient decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	ConversionCoefficient  decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`

	CommercialCost    decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	MarkupCoefficient decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Position       *Position           `gorm:"foreignKey:PositionID"`
	DetailCategory *DetailCostCategory `gorm:"foreignKey:DetailCategoryID"`
}

// CostingItem maps the row into the pure calculator's input type.
func (li *LineItem) CostingItem() costing.Item {
	item := costing.Item{
		ID:                    li.ID,
		Kind:                  li.ItemKind,
		Subtype:               li.MaterialSubtype,
		Quantity:              li.Quantity,
		UnitRate:              li.UnitRate,
		CurrencyMultiplier:    li.CurrencyMultiplier,
		DeliveryMode:          li.DeliveryMode,
		DeliveryAmountPerUnit: li.DeliveryAmountPerUnit,
	}
	if li.WorkItemID != nil {
		item.Link = &costing.WorkLink{
			WorkItemID:             *li.WorkItemID,
			ConsumptionCoefficient: li.ConsumptionCoefficient,
			ConversionCoefficient:  li.ConversionCoefficient,
		}
	}
	return item
}
