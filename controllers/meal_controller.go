package controllers

import (
	"net/http"
	"strconv"

	"github.com/anantham/nutrilens-sub002/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MealController struct {
	Svc *services.MealService
}

func NewMealController(svc *services.MealService) *MealController {
	return &MealController{Svc: svc}
}

// AnalyzeMeal runs the ingestion path: photo in, validated meal out. The
// response carries the stored meal plus the full validation report so the
// client can show warnings immediately.
func (h *MealController) AnalyzeMeal(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.AnalyzeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	meal, report, err := h.Svc.AnalyzeAndLog(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, gin.H{"meal": meal, "validation": report})
}

func (h *MealController) ListMeals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meals, err := h.Svc.ListMeals(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, meals)
}

func (h *MealController) GetMeal(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mealID, ok := mealIDParam(c)
	if !ok {
		return
	}

	meal, err := h.Svc.GetMeal(userID, mealID)
	if err == gorm.ErrRecordNotFound {
		c.JSON(404, gin.H{"error": "meal not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, meal)
}

func (h *MealController) ListFlaggedMeals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meals, err := h.Svc.ListFlaggedMeals(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, meals)
}

// UpdateNutrition accepts a partial map of canonical field names to new
// values; each edit of an AI-estimated field appends a correction record.
func (h *MealController) UpdateNutrition(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mealID, ok := mealIDParam(c)
	if !ok {
		return
	}

	var changes map[string]*float64
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if len(changes) == 0 {
		c.JSON(400, gin.H{"error": "no fields to update"})
		return
	}

	meal, corrections, err := h.Svc.UpdateMealNutrition(userID, mealID, changes)
	if err == gorm.ErrRecordNotFound {
		c.JSON(404, gin.H{"error": "meal not found"})
		return
	}
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"meal": meal, "corrections": corrections})
}

func (h *MealController) DeleteMeal(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	mealID, ok := mealIDParam(c)
	if !ok {
		return
	}

	if err := h.Svc.DeleteMeal(userID, mealID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(404, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "meal deleted"})
}

func mealIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid meal id"})
		return 0, false
	}
	return uint(id), true
}
