package routes

import (
	"log"

	"github.com/anantham/nutrilens-sub002/config"
	"github.com/anantham/nutrilens-sub002/controllers"
	"github.com/anantham/nutrilens-sub002/middlewares"
	"github.com/anantham/nutrilens-sub002/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	vision, err := services.NewVisionService()
	if err != nil {
		log.Fatalf("vision service: %v", err)
	}
	geocode := services.NewGeocodeService()
	hub := services.NewRealtimeHub()
	corrections := services.NewCorrectionService(config.DB)

	mealCtl := controllers.NewMealController(
		services.NewMealService(vision, geocode, corrections, hub, config.DB))
	accuracyCtl := controllers.NewAccuracyController(
		services.NewAccuracyService(config.DB))
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
	}

	// Protected meal routes
	meals := r.Group("/meals")
	meals.Use(middlewares.AuthMiddleware())
	{
		meals.POST("/analyze", mealCtl.AnalyzeMeal)
		meals.GET("", mealCtl.ListMeals)
		meals.GET("/flagged", mealCtl.ListFlaggedMeals)
		meals.GET("/:id", mealCtl.GetMeal)
		meals.PUT("/:id/nutrition", mealCtl.UpdateNutrition)
		meals.DELETE("/:id", mealCtl.DeleteMeal)
	}

	// AI-accuracy reporting
	accuracy := r.Group("/accuracy")
	accuracy.Use(middlewares.AuthMiddleware())
	{
		accuracy.GET("/overview", accuracyCtl.GetOverview)
		accuracy.GET("/fields", accuracyCtl.GetFieldAccuracy)
		accuracy.GET("/locations", accuracyCtl.GetLocationAccuracy)
		accuracy.GET("/calibration", accuracyCtl.GetCalibration)
		accuracy.GET("/significant", accuracyCtl.GetSignificantErrors)
	}

	// Realtime validation findings
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/validation", realtimeCtl.ValidationWS)
	}

	return r
}
