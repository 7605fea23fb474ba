package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RedistributionRequest is a persisted, canonicalized instruction to
// shift commercial cost between detail cost categories. At most one
// request is active per tender; the coordinator serializes flag flips
// and a partial unique index backs the rule in the database.
type RedistributionRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"not null"`
	IsActive bool      `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sources []RedistributionSource `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Targets []RedistributionTarget `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	Details []RedistributionDetail `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// RedistributionSource is one entry of the canonical withdrawal map:
// withdraw Percent of the works contribution of every item tagged with
// DetailCategoryID.
type RedistributionSource struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	DetailCategoryID uuid.UUID       `gorm:"type:uuid;not null"`
	Percent          decimal.Decimal `gorm:"type:decimal(8,4);not null"`
}

// RedistributionTarget is one member of the canonical target set.
type RedistributionTarget struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID        uuid.UUID `gorm:"type:uuid;not null;index"`
	DetailCategoryID uuid.UUID `gorm:"type:uuid;not null"`
}

// RedistributionDetail is the immutable audit row written for every
// line item the allocation touched. Rows are created inside the submit
// transaction and deleted only by deleting the parent request.
type RedistributionDetail struct {
	ID                          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineItemID                  uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginalCommercialCost      decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	RedistributedCommercialCost decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	// AdjustmentAmount = redistributed - original
	AdjustmentAmount decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	CreatedAt        time.Time

	LineItem *LineItem `gorm:"foreignKey:LineItemID"`
}
