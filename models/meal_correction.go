package models

import (
	"time"

	"gorm.io/gorm"
)

// MealCorrection is one append-only record of a human correcting one field
// of one AI-estimated meal. Rows are created exactly once and never updated;
// they are removed only when the owning meal is deleted. CreatedAt (from
// gorm.Model) is the correction timestamp.
type MealCorrection struct {
	gorm.Model
	MealID uint   `gorm:"index;not null"`
	UserID uint   `gorm:"index;not null"`
	Field  string `gorm:"type:varchar(32);not null"` // canonical nutrition field name

	AIValue      *float64
	UserValue    *float64
	PercentError *float64 // (user-ai)/user*100; nil when undefined

	// context captured at analysis time, denormalized for aggregation
	Confidence      *float64
	LocationType    *string `gorm:"type:varchar(32)"`
	LocationLabel   *string
	MealDescription string
	MealAteAt       time.Time
	AnalyzedAt      time.Time

	// client-supplied or generated; stored for forensic dedup of retries,
	// uniqueness deliberately not enforced
	IdempotencyKey string `gorm:"type:varchar(64);index"`
}
