package mockTestRoutes

import (
	controllers "langit/controllers/mocktest"
	"langit/middleware"
	validators "langit/validators/mocktest"

	"github.com/gofiber/fiber/v2"
)

// SetupMockTestRoutes sets up mock test delivery and scoring routes
func SetupMockTestRoutes(app *fiber.App) {
	mockGroup := app.Group("/mock-test", middleware.RequireTenant, middleware.JWTMiddleware, middleware.RequireActiveUser)

	mockGroup.Get("/result/:result_uid", controllers.GetResultByUID)
	mockGroup.Get("/:id", validators.MockTestID(), controllers.GetMockTest)
	mockGroup.Post("/:id/score", validators.MockTestID(), validators.ScoreMockTest(), controllers.ScoreMockTest)
	mockGroup.Get("/:id/result/latest", validators.MockTestID(), controllers.GetLatestResult)
	mockGroup.Get("/:id/results", validators.MockTestID(), validators.ResultList(), controllers.GetResultList)
}
