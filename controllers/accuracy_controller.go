// controllers/accuracy_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/anantham/nutrilens-sub002/services"

	"github.com/gin-gonic/gin"
)

type AccuracyController struct {
	Svc *services.AccuracyService
}

func NewAccuracyController(svc *services.AccuracyService) *AccuracyController {
	return &AccuracyController{Svc: svc}
}

func (h *AccuracyController) GetOverview(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}

	out, err := h.Svc.Overview(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

func (h *AccuracyController) GetFieldAccuracy(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}

	out, err := h.Svc.Fields(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

func (h *AccuracyController) GetLocationAccuracy(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}

	out, err := h.Svc.Locations(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

func (h *AccuracyController) GetCalibration(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}

	out, err := h.Svc.Calibration(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

func (h *AccuracyController) GetSignificantErrors(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}

	thresholdStr := c.DefaultQuery("threshold", "")
	threshold := services.DefaultSignificantThreshold
	if thresholdStr != "" {
		v, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil || v <= 0 {
			c.JSON(400, gin.H{"error": "invalid threshold"})
			return
		}
		threshold = v
	}

	out, err := h.Svc.Significant(c.Request.Context(), userID, days, threshold)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

// --- helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

// daysParam parses the optional ?days= lookback; 0 means the whole log.
// Writes a 400 response itself when the value is invalid.
func daysParam(c *gin.Context) (int, bool) {
	s := c.DefaultQuery("days", "0")
	days, err := strconv.Atoi(s)
	if err != nil || days < 0 {
		c.JSON(400, gin.H{"error": "invalid days"})
		return 0, false
	}
	return days, true
}
