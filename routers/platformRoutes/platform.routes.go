package platformRoutes

import (
	controllers "langit/controllers/platform"

	"github.com/gofiber/fiber/v2"
)

// SetupPlatformRoutes sets up platform-host routes (tenant directory)
func SetupPlatformRoutes(app *fiber.App) {
	platformGroup := app.Group("/platform")

	platformGroup.Get("/tenants", controllers.GetTenantList)
}
