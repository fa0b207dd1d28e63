package testController

import (
	"errors"

	"langit/middleware"
	"langit/services"
	testValidator "langit/validators/test"

	"github.com/gofiber/fiber/v2"
)

// GetTest delivers the shuffled, filtered question set for a chapter test.
func GetTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedFilter").(*struct {
		Difficulties  []string
		Tags          []string
		OnlyIncorrect bool
		Limit         int
	})

	db := middleware.TenantDB(c)
	testID := c.Locals("testID").(uint)

	payload, err := services.GetTestForUser(db, userID, testID, services.TestFilter{
		Difficulties:  reqData.Difficulties,
		Tags:          reqData.Tags,
		OnlyIncorrect: reqData.OnlyIncorrect,
		Limit:         reqData.Limit,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Test not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch test!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test fetched successfully.", payload)
}

// ScoreTest grades a submission. Review mode returns the corrected answers
// without recording anything.
func ScoreTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedScore").(*testValidator.ScoreTestRequest)

	db := middleware.TenantDB(c)
	testID := c.Locals("testID").(uint)

	result, err := services.ScoreTestForUser(db, userID, testID, reqData.Answers, reqData.Mode, reqData.ElapsedSeconds)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Test not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		if errors.Is(err, services.ErrDataIntegrity) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Test content is misconfigured!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to score test!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test scored successfully.", result)
}

// GetLatestResult returns the user's most recent persisted result with its
// answer details.
func GetLatestResult(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)
	testID := c.Locals("testID").(uint)

	result, details, err := services.LatestTestResult(db, userID, testID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No result found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch result!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Result fetched successfully.", fiber.Map{
		"result":  result,
		"answers": details,
	})
}
