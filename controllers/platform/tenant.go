package platformController

import (
	"langit/database"
	"langit/middleware"
	"langit/models"

	"github.com/gofiber/fiber/v2"
)

// GetTenantList returns the tenant directory. Platform-host only; connection
// credentials never serialize.
func GetTenantList(c *fiber.Ctx) error {
	if middleware.CurrentTenant(c) != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not available on tenant hosts!", nil)
	}

	var tenants []models.Tenant
	if err := database.Database.Db.Order("subdomain").Find(&tenants).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tenants!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tenants fetched successfully.", fiber.Map{
		"tenants": tenants,
		"total":   len(tenants),
	})
}
