package model

import (
	"time"

	"tenderhub/internal/costing"

	"github.com/google/uuid"
)

// MarkupProfile stores the tender's markup percentages. One profile is
// created with defaults when the tender is created; at most one is
// active per tender and the active one is read-only during calculation.
type MarkupProfile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenderID uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive bool      `gorm:"not null;default:true"`

	Rates costing.Profile `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
