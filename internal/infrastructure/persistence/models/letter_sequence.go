package models

import (
	"time"

	"github.com/google/uuid"
)

// LetterSequence is the numbering counter of one (tenant, year) partition.
// Year is 0 for tenants whose counter never resets.
type LetterSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey;autoIncrement:false"`
	Counter   int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LetterSequence) TableName() string {
	return "letter_sequences"
}
