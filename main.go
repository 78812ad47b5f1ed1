package main

import (
	"log"

	"platform/config"
	"platform/controllers"
	"platform/jobs"
	"platform/models"
	"platform/routes"
	"platform/services"
	"platform/services/logger"
)

func main() {
	router, cronJob, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := config.DB.AutoMigrate(
		&models.User{}, &models.Stay{}, &models.StayImage{}, &models.StayAvailability{},
		&models.FoodExperience{}, &models.FoodExperienceImage{},
		&models.Amenity{}, &models.Review{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	appLog := logger.NewDefaultLogger(logger.InfoLevel)

	uploadDir := config.GetEnvDefault("UPLOAD_DIR", "uploads")
	media, err := services.NewMediaService(uploadDir, config.GetEnv("BASE_URL"), appLog)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	controllers.Init(media, appLog)

	if err := jobs.InitCronJobs(cronJob, media, appLog); err != nil {
		log.Fatalf("Failed to register cron jobs: %v", err)
	}
	cronJob.Start()
	defer cronJob.Stop()

	routes.SetupRoutes(router)

	port := config.GetEnvDefault("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
