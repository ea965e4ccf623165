// services/meal_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/anantham/nutrilens-sub002/models"
	"github.com/anantham/nutrilens-sub002/utils"

	"gorm.io/gorm"
)

type MealService struct {
	vision      *VisionService
	geocode     *GeocodeService
	corrections *CorrectionService
	hub         *RealtimeHub
	db          *gorm.DB
}

func NewMealService(
	vision *VisionService,
	geocode *GeocodeService,
	corrections *CorrectionService,
	hub *RealtimeHub,
	db *gorm.DB,
) *MealService {
	return &MealService{
		vision:      vision,
		geocode:     geocode,
		corrections: corrections,
		hub:         hub,
		db:          db,
	}
}

type AnalyzeMealRequest struct {
	ImageBase64 string    `json:"image_base64" binding:"required"`
	Type        string    `json:"type"`
	AteAt       time.Time `json:"ate_at"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
}

// AnalyzeAndLog runs the full ingestion path: upload the photo, resolve the
// location context, ask the vision model for an estimate, validate it, and
// persist the meal. A report full of errors still stores the meal — flagged
// as unreliable, never silently dropped. Only upstream failures (upload,
// vision call) abort; the validator cannot.
func (s *MealService) AnalyzeAndLog(ctx context.Context, userID uint, req AnalyzeMealRequest) (*models.Meal, *utils.ValidationReport, error) {
	photoURL, err := utils.UploadMealPhoto(req.ImageBase64)
	if err != nil {
		return nil, nil, err
	}

	var locType, locLabel *string
	if req.Latitude != nil && req.Longitude != nil {
		if loc, gerr := s.geocode.ReverseGeocode(ctx, *req.Latitude, *req.Longitude); gerr != nil {
			// location context is advisory; never fail ingestion over it
			log.Printf("reverse geocode failed: %v", gerr)
		} else {
			locType = &loc.Type
			if loc.Label != "" {
				label := loc.Label
				locLabel = &label
			}
		}
	}

	analysis, err := s.vision.AnalyzeMealPhoto(ctx, req.ImageBase64)
	if err != nil {
		return nil, nil, err
	}
	est := analysis.Estimate

	report := utils.ValidateEstimate(est)
	issuesJSON, err := json.Marshal(report.Issues)
	if err != nil {
		return nil, nil, err
	}

	ateAt := req.AteAt
	if ateAt.IsZero() {
		ateAt = time.Now()
	}

	meal := &models.Meal{
		UserID:      userID,
		Type:        req.Type,
		AteAt:       ateAt,
		Description: analysis.Description,
		PhotoURL:    photoURL,

		AICalories:     intToFloat(est.Calories),
		AIProtein:      est.Protein,
		AIFat:          est.Fat,
		AISaturatedFat: est.SaturatedFat,
		AICarbs:        est.Carbs,
		AIFiber:        est.Fiber,
		AISugar:        est.Sugar,
		AISodium:       est.Sodium,

		Calories:     intToFloat(est.Calories),
		Protein:      est.Protein,
		Fat:          est.Fat,
		SaturatedFat: est.SaturatedFat,
		Carbs:        est.Carbs,
		Fiber:        est.Fiber,
		Sugar:        est.Sugar,
		Sodium:       est.Sodium,

		Confidence:    est.Confidence,
		LocationType:  locType,
		LocationLabel: locLabel,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		AnalyzedAt:    time.Now(),

		Flagged:          !report.Valid,
		ValidationIssues: string(issuesJSON),
	}
	if err := s.db.Create(meal).Error; err != nil {
		return nil, nil, err
	}

	if s.hub != nil && len(report.Issues) > 0 {
		s.hub.BroadcastValidation(userID, ValidationEvent{
			MealID: meal.ID,
			Valid:  report.Valid,
			Issues: report.Issues,
		})
	}
	return meal, &report, nil
}

// UpdateMealNutrition applies user edits to a meal's nutrition fields. Every
// edit of a field the model had estimated appends a correction record before
// the meal row changes, so the correction log always compares the human
// value against the original AI value.
func (s *MealService) UpdateMealNutrition(userID, mealID uint, changes map[string]*float64) (*models.Meal, []models.MealCorrection, error) {
	for field := range changes {
		if !models.IsNutritionField(field) {
			return nil, nil, errors.New("unknown nutrition field: " + field)
		}
	}

	var meal models.Meal
	if err := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		return nil, nil, err
	}

	cctx := CorrectionContext{
		Confidence:      meal.Confidence,
		LocationType:    meal.LocationType,
		LocationLabel:   meal.LocationLabel,
		MealDescription: meal.Description,
		MealAteAt:       meal.AteAt,
		AnalyzedAt:      meal.AnalyzedAt,
	}

	var recorded []models.MealCorrection
	// canonical order keeps the append sequence deterministic
	for _, field := range models.NutritionFields() {
		newVal, ok := changes[field]
		if !ok || newVal == nil {
			continue
		}
		if cur := meal.CurrentValue(field); cur != nil && *cur == *newVal {
			continue // no change shown vs submitted
		}
		if ai := meal.AIValue(field); ai != nil {
			rec, err := s.corrections.Record(meal.ID, userID, field, ai, newVal, cctx)
			if err != nil {
				return nil, nil, err
			}
			recorded = append(recorded, *rec)
		}
		meal.SetCurrentValue(field, newVal)
	}

	if err := s.db.Save(&meal).Error; err != nil {
		return nil, nil, err
	}
	return &meal, recorded, nil
}

func (s *MealService) ListMeals(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) GetMeal(userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		return nil, err // could be ErrRecordNotFound
	}
	return &meal, nil
}

// DeleteMeal removes a meal and cascades to its corrections — the only way
// correction records ever leave the log.
func (s *MealService) DeleteMeal(userID, mealID uint) error {
	var meal models.Meal
	if err := s.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		return err
	}
	if err := s.db.
		Where("meal_id = ?", meal.ID).
		Delete(&models.MealCorrection{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&meal).Error
}

// ListFlaggedMeals returns meals whose estimates failed validation, newest
// first, for manual review.
func (s *MealService) ListFlaggedMeals(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.
		Where("user_id = ? AND flagged = ?", userID, true).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
