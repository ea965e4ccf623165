package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVisionReply_FullEstimate(t *testing.T) {
	raw := `{
		"description": "Grilled chicken with rice",
		"calories": 450.4,
		"protein_g": 35,
		"fat_g": 12,
		"saturated_fat_g": 3.5,
		"carbs_g": 48,
		"fiber_g": 4,
		"sugar_g": 2,
		"sodium_mg": 620,
		"confidence": 0.82
	}`

	out, err := parseVisionReply(raw)
	require.NoError(t, err)

	assert.Equal(t, "Grilled chicken with rice", out.Description)
	require.NotNil(t, out.Estimate.Calories)
	assert.Equal(t, 450, *out.Estimate.Calories) // rounded to the nearest kcal
	require.NotNil(t, out.Estimate.Protein)
	assert.InDelta(t, 35.0, *out.Estimate.Protein, 0.001)
	require.NotNil(t, out.Estimate.Confidence)
	assert.InDelta(t, 0.82, *out.Estimate.Confidence, 0.001)
}

func TestParseVisionReply_OmittedFieldsStayNil(t *testing.T) {
	out, err := parseVisionReply(`{"description": "mystery soup", "calories": 200}`)
	require.NoError(t, err)

	assert.Nil(t, out.Estimate.Protein, "unreported field must stay nil, not zero")
	assert.Nil(t, out.Estimate.Sodium)
	assert.Nil(t, out.Estimate.Confidence)
	require.NotNil(t, out.Estimate.Calories)
	assert.Equal(t, 200, *out.Estimate.Calories)
}

func TestParseVisionReply_CodeFence(t *testing.T) {
	out, err := parseVisionReply("```json\n{\"description\": \"toast\", \"calories\": 120}\n```")
	require.NoError(t, err)
	assert.Equal(t, "toast", out.Description)
}

func TestParseVisionReply_ConfidenceClamped(t *testing.T) {
	out, err := parseVisionReply(`{"confidence": 1.4}`)
	require.NoError(t, err)
	require.NotNil(t, out.Estimate.Confidence)
	assert.InDelta(t, 1.0, *out.Estimate.Confidence, 0.001)

	out, err = parseVisionReply(`{"confidence": -0.2}`)
	require.NoError(t, err)
	require.NotNil(t, out.Estimate.Confidence)
	assert.InDelta(t, 0.0, *out.Estimate.Confidence, 0.001)
}

func TestParseVisionReply_InvalidJSON(t *testing.T) {
	_, err := parseVisionReply("sorry, I cannot identify this meal")
	assert.Error(t, err)
}
