package courseRoutes

import (
	controllers "langit/controllers/course"
	"langit/middleware"
	validators "langit/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course and progress routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireActiveUser)

	courseGroup.Get("/list", validators.CourseList(), controllers.GetCourseList)
	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetail)
	courseGroup.Get("/:id/timeline", validators.CourseID(), controllers.GetCourseTimeline)

	// Progress rates across all enrollments (or one course via ?course_id=)
	progressGroup := app.Group("/progress", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireActiveUser)
	progressGroup.Get("/", controllers.GetProgressRates)
}
