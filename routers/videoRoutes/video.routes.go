package videoRoutes

import (
	controllers "langit/controllers/video"
	"langit/middleware"
	validators "langit/validators/video"

	"github.com/gofiber/fiber/v2"
)

// SetupVideoRoutes sets up video playback and watch tracking routes
func SetupVideoRoutes(app *fiber.App) {
	videoGroup := app.Group("/video", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireActiveUser)

	videoGroup.Get("/:id", validators.VideoID(), controllers.GetVideoMeta)
	videoGroup.Post("/:id/event", validators.VideoID(), validators.RecordEvent(), controllers.RecordEvent)
	videoGroup.Post("/:id/progress", validators.VideoID(), validators.UpdateProgress(), controllers.UpdateProgress)
}
