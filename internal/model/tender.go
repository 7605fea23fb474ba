package model

import (
	"time"

	"github.com/google/uuid"
)

// Tender is the root aggregate: it owns positions, line items, one
// markup profile, a cost-category tree and redistribution requests.
type Tender struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	ClientName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Position groups line items inside a tender; it is the unit of the
// works/materials cost report.
type Position struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Number   int       `gorm:"not null"`
	Title    string    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Tender *Tender `gorm:"foreignKey:TenderID"`
}
