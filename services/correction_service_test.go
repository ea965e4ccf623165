package services

import (
	"testing"

	"github.com/anantham/nutrilens-sub002/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MealCorrection{}))
	return db
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestPercentError_SignConvention(t *testing.T) {
	// model underestimated: user's true value is higher → positive
	pe := PercentError(fptr(100), fptr(120))
	require.NotNil(t, pe)
	assert.InDelta(t, 16.67, *pe, 0.01)

	// model overestimated → negative
	pe = PercentError(fptr(120), fptr(100))
	require.NotNil(t, pe)
	assert.InDelta(t, -20.0, *pe, 0.01)
}

func TestPercentError_UndefinedCases(t *testing.T) {
	assert.Nil(t, PercentError(fptr(100), fptr(0)), "zero user value")
	assert.Nil(t, PercentError(nil, fptr(100)), "missing AI value")
	assert.Nil(t, PercentError(fptr(100), nil), "missing user value")
	assert.Nil(t, PercentError(nil, nil))
}

func TestRecord_RejectsStructurallyInvalidCalls(t *testing.T) {
	// input-contract checks run before any persistence
	svc := NewCorrectionService(nil)

	_, err := svc.Record(1, 1, "", fptr(100), fptr(120), CorrectionContext{})
	assert.Error(t, err, "missing field name")

	_, err = svc.Record(1, 1, "unobtainium_g", fptr(100), fptr(120), CorrectionContext{})
	assert.Error(t, err, "unknown field name")

	_, err = svc.Record(1, 1, "calories", fptr(100), nil, CorrectionContext{})
	assert.Error(t, err, "missing user value")
}

func TestRecord_ZeroUserValueStillPersists(t *testing.T) {
	db := newTestDB(t)
	svc := NewCorrectionService(db)

	rec, err := svc.Record(7, 1, models.FieldCalories, fptr(100), fptr(0), CorrectionContext{})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.PercentError, "percent error is undefined against a zero user value")
	assert.NotEmpty(t, rec.IdempotencyKey)

	var stored models.MealCorrection
	require.NoError(t, db.First(&stored, rec.ID).Error)
	assert.Equal(t, models.FieldCalories, stored.Field)
	assert.Nil(t, stored.PercentError)
	require.NotNil(t, stored.UserValue)
	assert.Zero(t, *stored.UserValue)
}

func TestRecord_MissingAIValueStillPersists(t *testing.T) {
	db := newTestDB(t)
	svc := NewCorrectionService(db)

	rec, err := svc.Record(7, 1, models.FieldProtein, nil, fptr(32), CorrectionContext{})
	require.NoError(t, err)
	assert.Nil(t, rec.PercentError, "no baseline to compare against")

	var stored models.MealCorrection
	require.NoError(t, db.First(&stored, rec.ID).Error)
	assert.Nil(t, stored.AIValue)
	assert.Nil(t, stored.PercentError)
}
