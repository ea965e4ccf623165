package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anantham/nutrilens-sub002/models"

	openai "github.com/sashabaranov/go-openai"
)

// VisionService asks a vision/language model for a nutrition estimate of a
// meal photo. The raw model output is decoded strictly into pointer fields so
// "not reported" survives as nil instead of collapsing to zero.
type VisionService struct {
	client *openai.Client
	model  string
}

func NewVisionService() (*VisionService, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	model := os.Getenv("OPENAI_VISION_MODEL")
	if model == "" {
		model = openai.GPT4o
	}
	return &VisionService{client: openai.NewClient(apiKey), model: model}, nil
}

// MealAnalysis is one vision reading: a human-readable description plus the
// structured estimate.
type MealAnalysis struct {
	Description string                   `json:"description"`
	Estimate    models.NutritionEstimate `json:"estimate"`
}

const visionSystemPrompt = `You are a nutrition estimation assistant. Given a photo of a meal, estimate its nutritional content. Respond with a single JSON object with these keys:
"description" (short text), "calories" (kcal), "protein_g", "fat_g", "saturated_fat_g", "carbs_g", "fiber_g", "sugar_g" (grams), "sodium_mg" (milligrams), "confidence" (0 to 1).
Omit any numeric key you cannot estimate; never guess zero for an unknown value.`

// AnalyzeMealPhoto sends a base64 data-URI image to the model and parses the
// JSON reply into a MealAnalysis.
func (s *VisionService) AnalyzeMealPhoto(ctx context.Context, imageDataURI string) (*MealAnalysis, error) {
	if !strings.HasPrefix(imageDataURI, "data:image") {
		return nil, errors.New("image must be a data URI")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: visionSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Estimate the nutrition of this meal."},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI, Detail: openai.ImageURLDetailAuto},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("vision API returned no choices")
	}
	return parseVisionReply(resp.Choices[0].Message.Content)
}

// visionReply mirrors the JSON the prompt asks for. Calories arrive as a
// float (models rarely emit strict integers) and are rounded below.
type visionReply struct {
	Description string   `json:"description"`
	Calories    *float64 `json:"calories"`
	ProteinG    *float64 `json:"protein_g"`
	FatG        *float64 `json:"fat_g"`
	SatFatG     *float64 `json:"saturated_fat_g"`
	CarbsG      *float64 `json:"carbs_g"`
	FiberG      *float64 `json:"fiber_g"`
	SugarG      *float64 `json:"sugar_g"`
	SodiumMg    *float64 `json:"sodium_mg"`
	Confidence  *float64 `json:"confidence"`
}

func parseVisionReply(raw string) (*MealAnalysis, error) {
	raw = strings.TrimSpace(raw)
	// some models still wrap JSON-mode output in a code fence
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var r visionReply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("failed to parse vision reply: %w", err)
	}

	est := models.NutritionEstimate{
		Protein:      r.ProteinG,
		Fat:          r.FatG,
		SaturatedFat: r.SatFatG,
		Carbs:        r.CarbsG,
		Fiber:        r.FiberG,
		Sugar:        r.SugarG,
		Sodium:       r.SodiumMg,
	}
	if r.Calories != nil {
		kcal := int(math.Round(*r.Calories))
		est.Calories = &kcal
	}
	if r.Confidence != nil {
		c := math.Min(1, math.Max(0, *r.Confidence))
		est.Confidence = &c
	}
	return &MealAnalysis{Description: r.Description, Estimate: est}, nil
}
