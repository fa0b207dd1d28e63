package questionTagValidator

import (
	"strings"

	"langit/middleware"

	"github.com/gofiber/fiber/v2"
)

func TagID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tagID, err := c.ParamsInt("id")
		if err != nil || tagID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid tag id!", nil)
		}

		c.Locals("tagID", uint(tagID))
		return c.Next()
	}
}

func StoreTag() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		} else if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTag", reqData)
		return c.Next()
	}
}

func SyncTags() fiber.Handler {
	return func(c *fiber.Ctx) error {
		questionID, err := c.ParamsInt("question_id")
		if err != nil || questionID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question id!", nil)
		}

		reqData := new(struct {
			TagIDs []uint `json:"tag_ids"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("questionID", uint(questionID))
		c.Locals("validatedSync", reqData)
		return c.Next()
	}
}
