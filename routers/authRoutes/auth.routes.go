package authRoutes

import (
	controllers "langit/controllers/auth"
	"langit/middleware"
	validators "langit/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up tenant login and account routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth", middleware.RequireTenant)

	authGroup.Post("/login", validators.Login(), controllers.Login)
	authGroup.Post("/mfa/verify", validators.VerifyMfa(), controllers.VerifyMfa)

	authGroup.Post("/password", middleware.JWTMiddleware, validators.ChangePassword(), controllers.ChangePassword)
	authGroup.Get("/login-history", middleware.JWTMiddleware, controllers.LoginHistoryList)
}
