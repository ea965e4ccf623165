package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/anantham/nutrilens-sub002/models"

	"gorm.io/gorm"
)

// DefaultSignificantThreshold is the |percent error| cutoff for the
// significant-error view when the caller does not supply one.
const DefaultSignificantThreshold = 50.0

// AccuracyService turns a user's correction log into accuracy, bias and
// calibration views. Each query fetches an immutable snapshot of the log and
// delegates to a pure fold, so the aggregation itself never touches the
// database and works over whatever record set it is handed.
type AccuracyService struct{ db *gorm.DB }

func NewAccuracyService(db *gorm.DB) *AccuracyService { return &AccuracyService{db: db} }

// ---------- view shapes ----------

type OverallAccuracyStats struct {
	TotalCorrections    int64   `json:"total_corrections"`
	AveragePercentError float64 `json:"average_percent_error"` // mean |signed error|
	ErrorStdDev         float64 `json:"error_std_dev"`         // population stddev of signed error
	UniqueMealsEdited   int64   `json:"unique_meals_edited"`
	EditRatePct         float64 `json:"edit_rate_pct"`
}

type FieldAccuracy struct {
	Field               string  `json:"field"`
	AveragePercentError float64 `json:"average_percent_error"`
	CorrectionCount     int64   `json:"correction_count"`
	MinError            float64 `json:"min_error"` // signed worst overestimate
	MaxError            float64 `json:"max_error"` // signed worst underestimate
}

type LocationFieldAccuracy struct {
	LocationType        string  `json:"location_type"`
	Field               string  `json:"field"`
	AveragePercentError float64 `json:"average_percent_error"`
	CorrectionCount     int64   `json:"correction_count"`
}

type ConfidenceCalibration struct {
	Bucket              float64 `json:"bucket"` // floor(confidence*10)/10
	AveragePercentError float64 `json:"average_percent_error"`
	CorrectionCount     int64   `json:"correction_count"`
}

type SignificantError struct {
	MealID          uint      `json:"meal_id"`
	Field           string    `json:"field"`
	AIValue         *float64  `json:"ai_value,omitempty"`
	UserValue       *float64  `json:"user_value,omitempty"`
	PercentError    float64   `json:"percent_error"`
	Confidence      *float64  `json:"confidence,omitempty"`
	LocationType    *string   `json:"location_type,omitempty"`
	MealDescription string    `json:"meal_description,omitempty"`
	MealAteAt       time.Time `json:"meal_ate_at"`
	CorrectedAt     time.Time `json:"corrected_at"`
}

// ---------- queries ----------

// snapshot loads the scope's corrections, optionally limited to the last
// `days` days. The returned slice is the immutable input to every fold.
func (s *AccuracyService) snapshot(ctx context.Context, userID uint, days int) ([]models.MealCorrection, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if days > 0 {
		q = q.Where("created_at >= ?", time.Now().AddDate(0, 0, -days))
	}
	var recs []models.MealCorrection
	err := q.Order("created_at ASC").Find(&recs).Error
	return recs, err
}

func (s *AccuracyService) Overview(ctx context.Context, userID uint, days int) (*OverallAccuracyStats, error) {
	recs, err := s.snapshot(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	var totalMeals int64
	if err := s.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("user_id = ?", userID).
		Count(&totalMeals).Error; err != nil {
		return nil, err
	}
	stats := ComputeOverallStats(recs, totalMeals)
	return &stats, nil
}

func (s *AccuracyService) Fields(ctx context.Context, userID uint, days int) ([]FieldAccuracy, error) {
	recs, err := s.snapshot(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return ComputeFieldAccuracy(recs), nil
}

func (s *AccuracyService) Locations(ctx context.Context, userID uint, days int) ([]LocationFieldAccuracy, error) {
	recs, err := s.snapshot(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return ComputeLocationAccuracy(recs), nil
}

func (s *AccuracyService) Calibration(ctx context.Context, userID uint, days int) ([]ConfidenceCalibration, error) {
	recs, err := s.snapshot(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return ComputeCalibration(recs), nil
}

func (s *AccuracyService) Significant(ctx context.Context, userID uint, days int, threshold float64) ([]SignificantError, error) {
	recs, err := s.snapshot(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	return ComputeSignificantErrors(recs, threshold), nil
}

// ---------- pure folds ----------
//
// All folds exclude records with an unset percent error from magnitude
// statistics rather than treating them as zero, and return well-defined
// zero/empty results on an empty snapshot.

// ComputeOverallStats reports mean |error| alongside the stddev of the
// signed error: a mean near zero with a large stddev is noisy but unbiased,
// a large mean with a small stddev is a consistent one-directional bias.
func ComputeOverallStats(recs []models.MealCorrection, totalMeals int64) OverallAccuracyStats {
	stats := OverallAccuracyStats{TotalCorrections: int64(len(recs))}

	meals := map[uint]struct{}{}
	var absSum float64
	var signed []float64
	for _, r := range recs {
		meals[r.MealID] = struct{}{}
		if r.PercentError == nil {
			continue
		}
		absSum += math.Abs(*r.PercentError)
		signed = append(signed, *r.PercentError)
	}
	stats.UniqueMealsEdited = int64(len(meals))

	if n := len(signed); n > 0 {
		stats.AveragePercentError = round2(absSum / float64(n))

		var mean float64
		for _, v := range signed {
			mean += v
		}
		mean /= float64(n)
		var ss float64
		for _, v := range signed {
			d := v - mean
			ss += d * d
		}
		stats.ErrorStdDev = round2(math.Sqrt(ss / float64(n)))
	}

	if totalMeals > 0 {
		stats.EditRatePct = round2(float64(stats.UniqueMealsEdited) / float64(totalMeals) * 100.0)
	}
	return stats
}

// ComputeFieldAccuracy groups by field, worst-understood fields first.
func ComputeFieldAccuracy(recs []models.MealCorrection) []FieldAccuracy {
	type acc struct {
		absSum   float64
		count    int64
		min, max float64
	}
	byField := map[string]*acc{}
	for _, r := range recs {
		if r.PercentError == nil {
			continue
		}
		pe := *r.PercentError
		a := byField[r.Field]
		if a == nil {
			a = &acc{min: pe, max: pe}
			byField[r.Field] = a
		}
		a.absSum += math.Abs(pe)
		a.count++
		if pe < a.min {
			a.min = pe
		}
		if pe > a.max {
			a.max = pe
		}
	}

	out := make([]FieldAccuracy, 0, len(byField))
	for f, a := range byField {
		out = append(out, FieldAccuracy{
			Field:               f,
			AveragePercentError: a.absSum / float64(a.count),
			CorrectionCount:     a.count,
			MinError:            a.min,
			MaxError:            a.max,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AveragePercentError != out[j].AveragePercentError {
			return out[i].AveragePercentError > out[j].AveragePercentError
		}
		return out[i].Field < out[j].Field
	})
	for i := range out {
		out[i].AveragePercentError = round2(out[i].AveragePercentError)
		out[i].MinError = round2(out[i].MinError)
		out[i].MaxError = round2(out[i].MaxError)
	}
	return out
}

// ComputeLocationAccuracy groups by the explicit (location, field) pair.
// Records with no location classification are excluded.
func ComputeLocationAccuracy(recs []models.MealCorrection) []LocationFieldAccuracy {
	type key struct{ location, field string }
	type acc struct {
		absSum float64
		count  int64
	}
	byKey := map[key]*acc{}
	for _, r := range recs {
		if r.PercentError == nil || r.LocationType == nil {
			continue
		}
		k := key{location: *r.LocationType, field: r.Field}
		a := byKey[k]
		if a == nil {
			a = &acc{}
			byKey[k] = a
		}
		a.absSum += math.Abs(*r.PercentError)
		a.count++
	}

	out := make([]LocationFieldAccuracy, 0, len(byKey))
	for k, a := range byKey {
		out = append(out, LocationFieldAccuracy{
			LocationType:        k.location,
			Field:               k.field,
			AveragePercentError: a.absSum / float64(a.count),
			CorrectionCount:     a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AveragePercentError != out[j].AveragePercentError {
			return out[i].AveragePercentError > out[j].AveragePercentError
		}
		if out[i].LocationType != out[j].LocationType {
			return out[i].LocationType < out[j].LocationType
		}
		return out[i].Field < out[j].Field
	})
	for i := range out {
		out[i].AveragePercentError = round2(out[i].AveragePercentError)
	}
	return out
}

// ComputeCalibration buckets corrections by reported confidence into ten
// equal-width buckets across [0,1] and reports mean |error| per bucket. A
// well-calibrated model shows error falling as the bucket rises.
func ComputeCalibration(recs []models.MealCorrection) []ConfidenceCalibration {
	type acc struct {
		absSum float64
		count  int64
	}
	byBucket := map[float64]*acc{}
	for _, r := range recs {
		if r.PercentError == nil || r.Confidence == nil {
			continue
		}
		b := confidenceBucket(*r.Confidence)
		a := byBucket[b]
		if a == nil {
			a = &acc{}
			byBucket[b] = a
		}
		a.absSum += math.Abs(*r.PercentError)
		a.count++
	}

	out := make([]ConfidenceCalibration, 0, len(byBucket))
	for b, a := range byBucket {
		out = append(out, ConfidenceCalibration{
			Bucket:              b,
			AveragePercentError: a.absSum / float64(a.count),
			CorrectionCount:     a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	for i := range out {
		out[i].AveragePercentError = round2(out[i].AveragePercentError)
	}
	return out
}

// ComputeSignificantErrors surfaces every correction with |percent error| at
// or above the threshold (inclusive), largest magnitude first, with enough
// context for manual triage.
func ComputeSignificantErrors(recs []models.MealCorrection, threshold float64) []SignificantError {
	if threshold <= 0 {
		threshold = DefaultSignificantThreshold
	}
	out := []SignificantError{}
	for _, r := range recs {
		if r.PercentError == nil || math.Abs(*r.PercentError) < threshold {
			continue
		}
		out = append(out, SignificantError{
			MealID:          r.MealID,
			Field:           r.Field,
			AIValue:         r.AIValue,
			UserValue:       r.UserValue,
			PercentError:    *r.PercentError,
			Confidence:      r.Confidence,
			LocationType:    r.LocationType,
			MealDescription: r.MealDescription,
			MealAteAt:       r.MealAteAt,
			CorrectedAt:     r.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].PercentError) > math.Abs(out[j].PercentError)
	})
	for i := range out {
		out[i].PercentError = round2(out[i].PercentError)
	}
	return out
}

// confidenceBucket maps a confidence in [0,1] to floor(c*10)/10. The epsilon
// keeps exact bucket edges like 0.7 from landing one bucket low due to
// float artifacts.
func confidenceBucket(c float64) float64 {
	return math.Floor(c*10+1e-9) / 10
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
