package courseController

import (
	"langit/middleware"
	"langit/services"

	"github.com/gofiber/fiber/v2"
)

// GetProgressRates computes per-course completion percentages for the user
// and syncs them back onto the enrollment rows.
func GetProgressRates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courseID *uint
	if raw := c.QueryInt("course_id"); raw > 0 {
		id := uint(raw)
		courseID = &id
	}

	db := middleware.TenantDB(c)

	rates, err := services.GetProgressRates(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	if err := services.SyncUserCourseRates(db, userID, rates); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sync progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", fiber.Map{
		"rates": rates,
	})
}
