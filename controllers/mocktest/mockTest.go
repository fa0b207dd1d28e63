package mockTestController

import (
	"errors"

	"langit/middleware"
	"langit/services"
	mockTestValidator "langit/validators/mocktest"

	"github.com/gofiber/fiber/v2"
)

// GetMockTest delivers the mock test in stored order.
func GetMockTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)
	mockTestID := c.Locals("mockTestID").(uint)

	payload, err := services.GetMockTestPayload(db, userID, mockTestID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Mock test not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch mock test!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Mock test fetched successfully.", payload)
}

// ScoreMockTest grades and persists a submission. Partial submissions are
// tolerated (missing answers grade as incorrect), but an answer naming a
// choice outside its question rejects the whole submission.
func ScoreMockTest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedMockScore").(*mockTestValidator.ScoreMockTestRequest)

	db := middleware.TenantDB(c)
	mockTestID := c.Locals("mockTestID").(uint)

	result, err := services.ScoreMockTest(db, userID, mockTestID, reqData.Answers)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Mock test not found!", nil)
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, services.Detail(err), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to score mock test!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Mock test scored successfully.", result)
}

// GetLatestResult returns the user's most recent submission with details.
func GetLatestResult(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := middleware.TenantDB(c)
	mockTestID := c.Locals("mockTestID").(uint)

	result, details, err := services.LatestMockTestResult(db, userID, mockTestID)
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

// GetResultList pages through the user's submission history, newest first.
func GetResultList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedResultList").(*struct {
		Limit int `query:"limit"`
	})

	db := middleware.TenantDB(c)
	mockTestID := c.Locals("mockTestID").(uint)

	results, err := services.ListMockTestResults(db, userID, mockTestID, reqData.Limit)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Mock test not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully.", fiber.Map{
		"results": results,
		"total":   len(results),
	})
}

// GetResultByUID loads one of the user's submissions by its public reference.
func GetResultByUID(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	resultUID := c.Params("result_uid")
	if resultUID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid result id!", nil)
	}

	db := middleware.TenantDB(c)

	result, details, err := services.MockTestResultByUID(db, userID, resultUID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Result not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch result!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Result fetched successfully.", fiber.Map{
		"result":  result,
		"answers": details,
	})
}
