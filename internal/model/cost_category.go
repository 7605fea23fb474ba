package model

import (
	"time"

	"github.com/google/uuid"
)

// CostCategory is the top level of the two-level cost hierarchy.
type CostCategory struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Details []DetailCostCategory `gorm:"foreignKey:CategoryID"`
}

// DetailCostCategory is the leaf that line items are tagged with and
// that redistribution requests reference.
type DetailCostCategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Category *CostCategory `gorm:"foreignKey:CategoryID"`
}
