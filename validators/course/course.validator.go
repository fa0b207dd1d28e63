package courseValidator

import (
	"langit/middleware"

	"github.com/gofiber/fiber/v2"
)

var learningStatuses = map[string]bool{
	"not_started": true,
	"in_progress": true,
	"completed":   true,
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Keyword        string `query:"keyword"`
			LearningStatus string `query:"learning_status"`
			MinProgress    *int   `query:"min_progress"`
			MaxProgress    *int   `query:"max_progress"`
			LatestOnly     bool   `query:"latest_only"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.LearningStatus != "" && !learningStatuses[reqData.LearningStatus] {
			errors["learning_status"] = "Learning status must be not_started, in_progress or completed!"
		}

		if reqData.MinProgress != nil && (*reqData.MinProgress < 0 || *reqData.MinProgress > 100) {
			errors["min_progress"] = "Min progress must be between 0 and 100!"
		}

		if reqData.MaxProgress != nil && (*reqData.MaxProgress < 0 || *reqData.MaxProgress > 100) {
			errors["max_progress"] = "Max progress must be between 0 and 100!"
		}

		if reqData.MinProgress != nil && reqData.MaxProgress != nil && *reqData.MinProgress > *reqData.MaxProgress {
			errors["min_progress"] = "Min progress cannot exceed max progress!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := c.ParamsInt("id")
		if err != nil || courseID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}
