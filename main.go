package main

import (
	"log"

	"langit/config"
	"langit/database"
	"langit/middleware"
	authRoutes "langit/routers/authRoutes"
	courseRoutes "langit/routers/courseRoutes"
	mockTestRoutes "langit/routers/mockTestRoutes"
	platformRoutes "langit/routers/platformRoutes"
	testRoutes "langit/routers/testRoutes"
	videoRoutes "langit/routers/videoRoutes"
	"langit/services"
	"langit/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Fire the completion webhook when an enrollment first reaches 100%
	services.CourseCompletedHook = utils.NotifyCourseCompleted

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",                           // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization,X-Tenant-Subdomain", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Resolve the tenant from the request host before any route runs
	app.Use(middleware.TenantMiddleware)

	platformRoutes.SetupPlatformRoutes(app)
	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	videoRoutes.SetupVideoRoutes(app)
	testRoutes.SetupTestRoutes(app)
	mockTestRoutes.SetupMockTestRoutes(app)

	scheduler := utils.StartProgressScheduler()
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
