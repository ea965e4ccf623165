package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal is one photo-logged meal. The AI* columns are the model's original
// estimate, frozen at analysis time; the unprefixed columns start as a copy
// and track user edits. Keeping both lets a correction always compare the
// human value against what the model actually said.
type Meal struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Type   string    // "Breakfast"|"Lunch"|…
	AteAt  time.Time // timestamp of the meal

	Description string // free-text meal description from the vision model
	PhotoURL    string

	// AI estimate snapshot (nil = model did not report the field)
	AICalories     *float64
	AIProtein      *float64
	AIFat          *float64
	AISaturatedFat *float64
	AICarbs        *float64
	AIFiber        *float64
	AISugar        *float64
	AISodium       *float64

	// current values, user-editable
	Calories     *float64
	Protein      *float64
	Fat          *float64
	SaturatedFat *float64
	Carbs        *float64
	Fiber        *float64
	Sugar        *float64
	Sodium       *float64

	Confidence    *float64 // model-reported, 0..1
	LocationType  *string  `gorm:"type:varchar(32)"`
	LocationLabel *string
	Latitude      *float64
	Longitude     *float64
	AnalyzedAt    time.Time

	Flagged          bool   // true when validation found an ERROR-severity issue
	ValidationIssues string `gorm:"type:text"` // JSON-encoded issue list
}

// AIValue returns the frozen AI estimate for a canonical field name.
func (m *Meal) AIValue(field string) *float64 {
	switch field {
	case FieldCalories:
		return m.AICalories
	case FieldProtein:
		return m.AIProtein
	case FieldFat:
		return m.AIFat
	case FieldSaturatedFat:
		return m.AISaturatedFat
	case FieldCarbs:
		return m.AICarbs
	case FieldFiber:
		return m.AIFiber
	case FieldSugar:
		return m.AISugar
	case FieldSodium:
		return m.AISodium
	}
	return nil
}

// CurrentValue returns the possibly-edited value for a canonical field name.
func (m *Meal) CurrentValue(field string) *float64 {
	switch field {
	case FieldCalories:
		return m.Calories
	case FieldProtein:
		return m.Protein
	case FieldFat:
		return m.Fat
	case FieldSaturatedFat:
		return m.SaturatedFat
	case FieldCarbs:
		return m.Carbs
	case FieldFiber:
		return m.Fiber
	case FieldSugar:
		return m.Sugar
	case FieldSodium:
		return m.Sodium
	}
	return nil
}

// SetCurrentValue updates the user-facing value for a canonical field name.
// Returns false for unknown fields.
func (m *Meal) SetCurrentValue(field string, v *float64) bool {
	switch field {
	case FieldCalories:
		m.Calories = v
	case FieldProtein:
		m.Protein = v
	case FieldFat:
		m.Fat = v
	case FieldSaturatedFat:
		m.SaturatedFat = v
	case FieldCarbs:
		m.Carbs = v
	case FieldFiber:
		m.Fiber = v
	case FieldSugar:
		m.Sugar = v
	case FieldSodium:
		m.Sodium = v
	default:
		return false
	}
	return true
}
