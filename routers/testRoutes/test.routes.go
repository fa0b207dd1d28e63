package testRoutes

import (
	tagControllers "langit/controllers/questiontag"
	controllers "langit/controllers/test"
	"langit/middleware"
	tagValidators "langit/validators/questiontag"
	validators "langit/validators/test"

	"github.com/gofiber/fiber/v2"
)

// SetupTestRoutes sets up chapter test delivery, scoring and tag routes
func SetupTestRoutes(app *fiber.App) {
	testGroup := app.Group("/test", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireActiveUser)

	testGroup.Get("/:id", validators.TestID(), validators.GetTest(), controllers.GetTest)
	testGroup.Post("/:id/score", validators.TestID(), validators.ScoreTest(), controllers.ScoreTest)
	testGroup.Get("/:id/result/latest", validators.TestID(), controllers.GetLatestResult)

	// Per-tag accuracy for the authenticated user
	statsGroup := app.Group("/question-tags", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireActiveUser)
	statsGroup.Get("/stats", tagControllers.GetTagStats)

	// Tag administration
	adminGroup := app.Group("/admin/question-tags", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireRole("admin"))
	adminGroup.Get("/", tagControllers.GetTagList)
	adminGroup.Post("/", tagValidators.StoreTag(), tagControllers.StoreTag)
	adminGroup.Put("/:id", tagValidators.TagID(), tagValidators.StoreTag(), tagControllers.UpdateTag)
	adminGroup.Delete("/:id", tagValidators.TagID(), tagControllers.DestroyTag)
	adminGroup.Put("/question/:question_id/sync", tagValidators.SyncTags(), tagControllers.SyncTags)
}
