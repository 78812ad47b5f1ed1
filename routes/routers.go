package routes

import (
	"platform/controllers"
	"platform/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every endpoint onto the router.
func SetupRoutes(router *gin.Engine) {
	router.MaxMultipartMemory = controllers.MaxUploadBytes

	// Stored media, thumbnails generated lazily under /uploads/thumbnails/.
	router.GET("/uploads/*filepath", controllers.ServeUpload)

	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware())

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.RegisterUser)
		auth.POST("/login", controllers.Login)
		auth.POST("/google", controllers.AuthGoogle)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.GetCurrentUser)
		auth.POST("/logout", middleware.AuthMiddleware(), controllers.Logout)
	}

	// Public browse.
	api.GET("/stays", controllers.GetPublicStays)
	api.GET("/food-experiences", controllers.GetPublicFoodExperiences)
	api.GET("/food-experiences/:id", controllers.GetFoodExperienceDetail)
	api.GET("/amenities", controllers.GetAmenities)
	api.GET("/food-categories", controllers.GetFoodCategories)
	api.GET("/featured-stays", controllers.GetFeaturedStays)
	api.GET("/featured-food", controllers.GetFeaturedFood)
	api.GET("/listings/nearby", controllers.GetNearbyListings)

	api.POST("/upload", middleware.AuthMiddleware(), controllers.UploadImage)

	host := api.Group("/host")
	host.Use(middleware.AuthMiddleware())
	{
		host.POST("/stays", controllers.CreateStay)
		host.GET("/stays", controllers.GetHostStays)
		host.GET("/stays/:id", controllers.GetHostStay)
		host.PUT("/stays/:id", controllers.UpdateStay)
		host.POST("/stays/:id/availability", controllers.UpdateStayAvailability)

		host.POST("/food-experiences", controllers.CreateFoodExperience)
		host.GET("/food-experiences", controllers.GetHostFoodExperiences)
		host.GET("/food-experiences/:id", controllers.GetHostFoodExperience)
		host.PUT("/food-experiences/:id", controllers.UpdateFoodExperience)
		host.POST("/food-experiences/:id/images", controllers.UploadFoodExperienceImages)
		host.DELETE("/food-experiences/:id/images", controllers.DeleteFoodExperienceImage)
		host.PUT("/food-experiences/:id/images/reorder", controllers.ReorderFoodExperienceImages)
	}
}
