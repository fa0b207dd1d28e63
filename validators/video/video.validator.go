package videoValidator

import (
	"langit/middleware"

	"github.com/gofiber/fiber/v2"
)

func VideoID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		videoID, err := c.ParamsInt("id")
		if err != nil || videoID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid video id!", nil)
		}

		c.Locals("videoID", uint(videoID))
		return c.Next()
	}
}

func RecordEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Position *int `json:"position"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position == nil {
			errors["position"] = "Position is required!"
		} else if *reqData.Position < 0 {
			errors["position"] = "Position must be 0 or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEvent", reqData)
		return c.Next()
	}
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			WatchTime *int `json:"watch_time"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.WatchTime == nil {
			errors["watch_time"] = "Watch time is required!"
		} else if *reqData.WatchTime < 0 {
			errors["watch_time"] = "Watch time must be 0 or greater!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
