package utils

import (
	"fmt"
	"math"

	"github.com/anantham/nutrilens-sub002/models"
)

// IssueSeverity categorizes how serious a validation finding is.
type IssueSeverity string

const (
	// SeverityError marks data that is physically impossible; the record can
	// still be stored but must not be trusted.
	SeverityError IssueSeverity = "error"
	// SeverityWarning marks data that is suspicious but plausible.
	SeverityWarning IssueSeverity = "warning"
)

// Atwater energy factors (kcal per gram).
const (
	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
	kcalPerGramCarbs   = 4.0
)

// Tunable thresholds. Changing these never changes check logic.
const (
	energyTolerancePct = 20.0 // stated vs macro-derived calories
	macroRatioSlack    = 1.10 // rounding slack on single-macro energy

	outlierCaloriesKcal = 2500.0
	outlierSodiumMg     = 3000.0
	outlierFiberG       = 30.0
	outlierProteinG     = 150.0
)

// ValidationIssue is a structured finding about one field of an estimate.
type ValidationIssue struct {
	Severity     IssueSeverity `json:"severity"`
	Field        string        `json:"field"`
	Message      string        `json:"message"`
	ActualValue  *float64      `json:"actual_value,omitempty"`
	SuggestedFix *float64      `json:"suggested_fix,omitempty"`
}

// ValidationReport is the result of running every plausibility check over
// one estimate. Valid is false only when an error-severity issue is present;
// warnings never flip it.
type ValidationReport struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
}

// ValidateEstimate runs the plausibility checks over one AI-produced
// nutrition estimate. It is pure and total: it never panics for any input,
// and the same estimate always yields an identical report. Each check is
// silently skipped when a field it needs is absent — missing data is never
// itself a finding.
func ValidateEstimate(est models.NutritionEstimate) ValidationReport {
	issues := []ValidationIssue{}

	var calories *float64
	if est.Calories != nil {
		c := float64(*est.Calories)
		calories = &c
	}

	// 1) Energy balance: macro-derived calories are an independent
	// cross-check against a stated total inconsistent with the model's own
	// macro breakdown.
	if calories != nil && *calories > 0 &&
		est.Protein != nil && est.Fat != nil && est.Carbs != nil {
		macroKcal := *est.Protein*kcalPerGramProtein +
			*est.Fat*kcalPerGramFat +
			*est.Carbs*kcalPerGramCarbs
		diffPct := math.Abs(*calories-macroKcal) / *calories * 100.0
		if diffPct > energyTolerancePct {
			issues = append(issues, ValidationIssue{
				Severity:     SeverityWarning,
				Field:        models.FieldCalories,
				Message:      fmt.Sprintf("stated calories differ from macro-derived energy by %.1f%% (macros suggest ~%.0f kcal)", diffPct, macroKcal),
				ActualValue:  calories,
				SuggestedFix: &macroKcal,
			})
		}
	}

	// 2) Impossible ratios: a single macro cannot supply more energy than
	// the stated total, with small slack for rounding.
	if calories != nil {
		limit := *calories * macroRatioSlack
		type macro struct {
			field  string
			grams  *float64
			factor float64
		}
		for _, m := range []macro{
			{models.FieldProtein, est.Protein, kcalPerGramProtein},
			{models.FieldFat, est.Fat, kcalPerGramFat},
			{models.FieldCarbs, est.Carbs, kcalPerGramCarbs},
		} {
			if m.grams == nil {
				continue
			}
			ownKcal := *m.grams * m.factor
			if ownKcal > limit {
				issues = append(issues, ValidationIssue{
					Severity:    SeverityError,
					Field:       m.field,
					Message:     fmt.Sprintf("%s alone supplies %.0f kcal, more than the stated total of %.0f kcal", m.field, ownKcal, *calories),
					ActualValue: m.grams,
				})
			}
		}
	}

	// 3) Fiber is a carbohydrate subtype.
	if est.Fiber != nil && est.Carbs != nil && *est.Fiber > *est.Carbs {
		issues = append(issues, ValidationIssue{
			Severity:    SeverityError,
			Field:       models.FieldFiber,
			Message:     fmt.Sprintf("fiber (%.1f g) exceeds total carbohydrates (%.1f g)", *est.Fiber, *est.Carbs),
			ActualValue: est.Fiber,
		})
	}

	// 4) So is sugar.
	if est.Sugar != nil && est.Carbs != nil && *est.Sugar > *est.Carbs {
		issues = append(issues, ValidationIssue{
			Severity:    SeverityError,
			Field:       models.FieldSugar,
			Message:     fmt.Sprintf("sugar (%.1f g) exceeds total carbohydrates (%.1f g)", *est.Sugar, *est.Carbs),
			ActualValue: est.Sugar,
		})
	}

	// 5) Saturated fat is a subset of total fat.
	if est.SaturatedFat != nil && est.Fat != nil && *est.SaturatedFat > *est.Fat {
		issues = append(issues, ValidationIssue{
			Severity:    SeverityError,
			Field:       models.FieldSaturatedFat,
			Message:     fmt.Sprintf("saturated fat (%.1f g) exceeds total fat (%.1f g)", *est.SaturatedFat, *est.Fat),
			ActualValue: est.SaturatedFat,
		})
	}

	// 6) Outliers: flag meals worth manual review without blocking storage.
	outlier := func(field string, v *float64, limit float64, unit string) {
		if v != nil && *v > limit {
			issues = append(issues, ValidationIssue{
				Severity:    SeverityWarning,
				Field:       field,
				Message:     fmt.Sprintf("unusually high %s: %.0f %s (review threshold %.0f %s)", field, *v, unit, limit, unit),
				ActualValue: v,
			})
		}
	}
	outlier(models.FieldCalories, calories, outlierCaloriesKcal, "kcal")
	outlier(models.FieldSodium, est.Sodium, outlierSodiumMg, "mg")
	outlier(models.FieldFiber, est.Fiber, outlierFiberG, "g")
	outlier(models.FieldProtein, est.Protein, outlierProteinG, "g")

	valid := true
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			valid = false
			break
		}
	}
	return ValidationReport{Valid: valid, Issues: issues}
}
