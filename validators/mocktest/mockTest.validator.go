package mockTestValidator

import (
	"langit/middleware"
	"langit/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ScoreMockTestRequest is the mock test submission payload. Answers may cover
// only part of the question set; missing questions are graded as incorrect.
type ScoreMockTestRequest struct {
	Answers []services.MockAnswer `json:"answers" validate:"dive"`
}

func MockTestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		mockTestID, err := c.ParamsInt("id")
		if err != nil || mockTestID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid mock test id!", nil)
		}

		c.Locals("mockTestID", uint(mockTestID))
		return c.Next()
	}
}

func ScoreMockTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScoreMockTestRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "Each answer needs a question_id and a choice_id!",
			})
		}

		c.Locals("validatedMockScore", reqData)
		return c.Next()
	}
}

func ResultList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Limit int `query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Limit < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"limit": "Limit must be 0 or greater!",
			})
		}

		c.Locals("validatedResultList", reqData)
		return c.Next()
	}
}
