package utils

import (
	"testing"

	"github.com/anantham/nutrilens-sub002/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestValidateEstimate_EmptyEstimate(t *testing.T) {
	report := ValidateEstimate(models.NutritionEstimate{})

	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestValidateEstimate_MissingInputsSkipChecks(t *testing.T) {
	tests := []struct {
		name string
		est  models.NutritionEstimate
	}{
		{"calories only", models.NutritionEstimate{Calories: iptr(500)}},
		{"macros without calories", models.NutritionEstimate{
			Protein: fptr(25), Fat: fptr(15), Carbs: fptr(60),
		}},
		{"fiber without carbs", models.NutritionEstimate{Fiber: fptr(25)}},
		{"sugar without carbs", models.NutritionEstimate{Sugar: fptr(40)}},
		{"saturated fat without total fat", models.NutritionEstimate{SaturatedFat: fptr(20)}},
		{"partial macros skip energy balance", models.NutritionEstimate{
			Calories: iptr(500), Protein: fptr(5), // fat and carbs unreported
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateEstimate(tt.est)
			assert.True(t, report.Valid)
			assert.Empty(t, report.Issues)
		})
	}
}

func TestValidateEstimate_EnergyBalanceWithinTolerance(t *testing.T) {
	// macros suggest 25*4 + 15*9 + 60*4 = 475 kcal, ~5% off the stated 500
	report := ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(500),
		Protein:  fptr(25),
		Fat:      fptr(15),
		Carbs:    fptr(60),
	})

	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestValidateEstimate_EnergyMismatchAndFiberExcess(t *testing.T) {
	// macros suggest 10*4 + 5*9 + 20*4 = 165 kcal, 45% off the stated 300,
	// and fiber exceeds carbs
	report := ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(300),
		Protein:  fptr(10),
		Fat:      fptr(5),
		Carbs:    fptr(20),
		Fiber:    fptr(25),
	})

	require.Len(t, report.Issues, 2)
	assert.False(t, report.Valid)

	energy := report.Issues[0]
	assert.Equal(t, SeverityWarning, energy.Severity)
	assert.Equal(t, models.FieldCalories, energy.Field)
	require.NotNil(t, energy.SuggestedFix)
	assert.InDelta(t, 165.0, *energy.SuggestedFix, 0.001)

	fiber := report.Issues[1]
	assert.Equal(t, SeverityError, fiber.Severity)
	assert.Equal(t, models.FieldFiber, fiber.Field)
}

func TestValidateEstimate_ImpossibleMacroRatio(t *testing.T) {
	// 50g protein supplies 200 kcal, far above the stated 100 kcal total
	report := ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(100),
		Protein:  fptr(50),
	})

	require.Len(t, report.Issues, 1)
	assert.False(t, report.Valid)
	assert.Equal(t, SeverityError, report.Issues[0].Severity)
	assert.Equal(t, models.FieldProtein, report.Issues[0].Field)
}

func TestValidateEstimate_MacroRatioSlackBoundary(t *testing.T) {
	// 27.5g protein = 110 kcal, exactly the 10% slack over 100: no error
	report := ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(100),
		Protein:  fptr(27.5),
	})
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)

	// a hair over the slack is an error
	report = ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(100),
		Protein:  fptr(27.6),
	})
	require.Len(t, report.Issues, 1)
	assert.False(t, report.Valid)
}

func TestValidateEstimate_SubsetRelationships(t *testing.T) {
	tests := []struct {
		name      string
		est       models.NutritionEstimate
		wantField string
	}{
		{"sugar exceeds carbs", models.NutritionEstimate{
			Carbs: fptr(20), Sugar: fptr(30),
		}, models.FieldSugar},
		{"saturated fat exceeds fat", models.NutritionEstimate{
			Fat: fptr(10), SaturatedFat: fptr(12),
		}, models.FieldSaturatedFat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateEstimate(tt.est)
			require.Len(t, report.Issues, 1)
			assert.False(t, report.Valid)
			assert.Equal(t, SeverityError, report.Issues[0].Severity)
			assert.Equal(t, tt.wantField, report.Issues[0].Field)
		})
	}

	t.Run("equality is allowed", func(t *testing.T) {
		report := ValidateEstimate(models.NutritionEstimate{
			Carbs: fptr(20), Sugar: fptr(20), Fiber: fptr(20),
			Fat: fptr(10), SaturatedFat: fptr(10),
		})
		assert.True(t, report.Valid)
		assert.Empty(t, report.Issues)
	})
}

func TestValidateEstimate_OutliersWarnWithoutBlocking(t *testing.T) {
	report := ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(2600),
		Sodium:   fptr(3500),
	})

	require.Len(t, report.Issues, 2)
	assert.True(t, report.Valid, "outliers are warnings, not errors")
	assert.Equal(t, models.FieldCalories, report.Issues[0].Field)
	assert.Equal(t, SeverityWarning, report.Issues[0].Severity)
	assert.Equal(t, models.FieldSodium, report.Issues[1].Field)
	assert.Equal(t, SeverityWarning, report.Issues[1].Severity)
}

func TestValidateEstimate_OutlierBoundariesExclusive(t *testing.T) {
	report := ValidateEstimate(models.NutritionEstimate{
		Calories: iptr(2500),
		Sodium:   fptr(3000),
		Fiber:    fptr(30),
		Protein:  fptr(150),
	})
	// all exactly at their cutoffs: nothing exceeds
	assert.Empty(t, report.Issues)
}

func TestValidateEstimate_IssueOrderingFollowsCheckOrder(t *testing.T) {
	// trips energy balance (1), fiber (3), sugar (4), saturated fat (5) and
	// the protein outlier (6), in that order
	report := ValidateEstimate(models.NutritionEstimate{
		Calories:     iptr(2000),
		Protein:      fptr(160),
		Fat:          fptr(10),
		SaturatedFat: fptr(15),
		Carbs:        fptr(30),
		Fiber:        fptr(40),
		Sugar:        fptr(35),
	})

	var fields []string
	for _, iss := range report.Issues {
		fields = append(fields, iss.Field)
	}
	assert.Equal(t, []string{
		models.FieldCalories,     // energy balance warning
		models.FieldFiber,        // fiber > carbs
		models.FieldSugar,        // sugar > carbs
		models.FieldSaturatedFat, // sat fat > fat
		models.FieldFiber,        // fiber outlier
		models.FieldProtein,      // protein outlier
	}, fields)
	assert.False(t, report.Valid)
}

func TestValidateEstimate_Idempotent(t *testing.T) {
	est := models.NutritionEstimate{
		Calories: iptr(300),
		Protein:  fptr(10),
		Fat:      fptr(5),
		Carbs:    fptr(20),
		Fiber:    fptr(25),
	}

	first := ValidateEstimate(est)
	second := ValidateEstimate(est)
	assert.Equal(t, first, second)
}
