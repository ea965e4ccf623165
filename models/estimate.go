package models

// Canonical nutrition field names, shared by validation reports,
// correction records and the edit API.
const (
	FieldCalories     = "calories"
	FieldProtein      = "protein_g"
	FieldFat          = "fat_g"
	FieldSaturatedFat = "saturated_fat_g"
	FieldCarbs        = "carbs_g"
	FieldFiber        = "fiber_g"
	FieldSugar        = "sugar_g"
	FieldSodium       = "sodium_mg"
)

// NutritionFields returns every correctable field in canonical order.
func NutritionFields() []string {
	return []string{
		FieldCalories,
		FieldProtein,
		FieldFat,
		FieldSaturatedFat,
		FieldCarbs,
		FieldFiber,
		FieldSugar,
		FieldSodium,
	}
}

func IsNutritionField(name string) bool {
	for _, f := range NutritionFields() {
		if f == name {
			return true
		}
	}
	return false
}

// NutritionEstimate is one vision-model reading of a meal photo.
// Every field is optional: nil means the model did not report it,
// which is different from reporting zero.
type NutritionEstimate struct {
	Calories     *int     `json:"calories,omitempty"`        // kcal
	Protein      *float64 `json:"protein_g,omitempty"`       // g
	Fat          *float64 `json:"fat_g,omitempty"`           // g
	SaturatedFat *float64 `json:"saturated_fat_g,omitempty"` // g
	Carbs        *float64 `json:"carbs_g,omitempty"`         // g
	Fiber        *float64 `json:"fiber_g,omitempty"`         // g
	Sugar        *float64 `json:"sugar_g,omitempty"`         // g
	Sodium       *float64 `json:"sodium_mg,omitempty"`       // mg
	Confidence   *float64 `json:"confidence,omitempty"`      // 0..1
}

// Place classifications produced by reverse geocoding.
const (
	LocationRestaurant = "restaurant"
	LocationHome       = "home"
	LocationGrocery    = "grocery"
	LocationOther      = "other"
)

// LocationContext is the opaque meal-context classification attached to an
// analysis when the client supplied coordinates.
type LocationContext struct {
	Type  string `json:"type"`            // restaurant|home|grocery|other
	Label string `json:"label,omitempty"` // display name of the place, if any
}

func (lc LocationContext) IsRestaurant() bool { return lc.Type == LocationRestaurant }
func (lc LocationContext) IsHome() bool       { return lc.Type == LocationHome }
