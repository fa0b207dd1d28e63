package middleware

import (
	"errors"

	"langit/config"
	"langit/database"
	"langit/models"
	"langit/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TenantMiddleware resolves the request's tenant from the Host header (an
// X-Tenant-Subdomain header overrides it, for tools and local setups) and
// stores the tenant record plus its DB handle in the request context.
//
// Platform hosts pass through with no tenant set; routes that require a
// tenant context guard with RequireTenant.
func TenantMiddleware(c *fiber.Ctx) error {
	host := c.Hostname()
	if override := c.Get("X-Tenant-Subdomain"); override != "" {
		host = override + "." + config.AppConfig.TenantBaseDomain
	}

	tenant, err := services.ResolveTenantFromHost(database.Database.Db, host, config.AppConfig.TenantBaseDomain)
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			return JsonResponse(c, fiber.StatusNotFound, false, "Unknown tenant!", nil)
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve tenant!", nil)
	}

	if tenant != nil {
		db, err := database.TenantDb(tenant)
		if err != nil {
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to connect tenant database!", nil)
		}
		c.Locals("tenant", tenant)
		c.Locals("tenantDb", db)
	}

	return c.Next()
}

// RequireTenant rejects requests that reached a tenant-scoped route through a
// platform host.
func RequireTenant(c *fiber.Ctx) error {
	if c.Locals("tenantDb") == nil {
		return JsonResponse(c, fiber.StatusNotFound, false, "Unknown tenant!", nil)
	}
	return c.Next()
}

// TenantDB returns the request's tenant database handle.
func TenantDB(c *fiber.Ctx) *gorm.DB {
	db, _ := c.Locals("tenantDb").(*gorm.DB)
	return db
}

// CurrentTenant returns the request's tenant record, or nil on platform hosts.
func CurrentTenant(c *fiber.Ctx) *models.Tenant {
	tenant, _ := c.Locals("tenant").(*models.Tenant)
	return tenant
}
