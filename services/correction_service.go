package services

import (
	"errors"
	"time"

	"github.com/anantham/nutrilens-sub002/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorrectionService struct{ db *gorm.DB }

func NewCorrectionService(db *gorm.DB) *CorrectionService {
	return &CorrectionService{db: db}
}

// CorrectionContext carries the analysis-time context that gets denormalized
// onto every correction record so aggregates can group without joins.
type CorrectionContext struct {
	Confidence      *float64
	LocationType    *string
	LocationLabel   *string
	MealDescription string
	MealAteAt       time.Time
	AnalyzedAt      time.Time
	IdempotencyKey  string // generated when empty
}

// PercentError computes the signed relative error of an AI value against the
// human-corrected (assumed true) value: (user-ai)/user*100. Positive means
// the model underestimated. Returns nil when either value is missing or the
// user value is zero — undefined, not zero.
func PercentError(aiValue, userValue *float64) *float64 {
	if aiValue == nil || userValue == nil || *userValue == 0 {
		return nil
	}
	pe := (*userValue - *aiValue) / *userValue * 100.0
	return &pe
}

// Record appends one immutable correction. It rejects only a missing field
// name or a missing user value — a correction with no new value is
// meaningless. Everything else, including a nil AI value or a zero user
// value, still produces a record (with PercentError left unset).
func (s *CorrectionService) Record(
	mealID, userID uint,
	field string,
	aiValue, userValue *float64,
	cctx CorrectionContext,
) (*models.MealCorrection, error) {
	if field == "" {
		return nil, errors.New("correction field name is required")
	}
	if !models.IsNutritionField(field) {
		return nil, errors.New("unknown nutrition field: " + field)
	}
	if userValue == nil {
		return nil, errors.New("corrected user value is required")
	}

	key := cctx.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	rec := &models.MealCorrection{
		MealID:          mealID,
		UserID:          userID,
		Field:           field,
		AIValue:         aiValue,
		UserValue:       userValue,
		PercentError:    PercentError(aiValue, userValue),
		Confidence:      cctx.Confidence,
		LocationType:    cctx.LocationType,
		LocationLabel:   cctx.LocationLabel,
		MealDescription: cctx.MealDescription,
		MealAteAt:       cctx.MealAteAt,
		AnalyzedAt:      cctx.AnalyzedAt,
		IdempotencyKey:  key,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListForMeal returns the correction history of one meal, oldest first.
func (s *CorrectionService) ListForMeal(userID, mealID uint) ([]models.MealCorrection, error) {
	var recs []models.MealCorrection
	err := s.db.
		Where("user_id = ? AND meal_id = ?", userID, mealID).
		Order("created_at ASC").
		Find(&recs).Error
	return recs, err
}
