package middleware

import (
	"net/http/httptest"
	"testing"

	"langit/database"
	"langit/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newGateApp wires RequireActiveUser behind a stub that stands in for the
// JWT and tenant middlewares, pointing at a fresh in-memory tenant database.
func newGateApp(t *testing.T, userID uint) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunTenantMigrations(db))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		c.Locals("tenantDb", db)
		return c.Next()
	})
	app.Get("/ping", RequireActiveUser, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, db
}

func TestRequireActiveUser(t *testing.T) {
	t.Run("active account passes", func(t *testing.T) {
		app, db := newGateApp(t, 1)
		require.NoError(t, db.Create(&models.User{
			Email:    "student@example.com",
			Password: "x",
			Status:   "active",
		}).Error)

		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("suspended account is unauthorized", func(t *testing.T) {
		app, db := newGateApp(t, 1)
		require.NoError(t, db.Create(&models.User{
			Email:    "student@example.com",
			Password: "x",
			Status:   "suspended",
		}).Error)

		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown account is unauthorized", func(t *testing.T) {
		app, _ := newGateApp(t, 42)

		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
