package testValidator

import (
	"strings"

	"langit/middleware"
	"langit/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ScoreTestRequest is the chapter test submission payload.
type ScoreTestRequest struct {
	Answers        []services.TestAnswer `json:"answers" validate:"required,min=1,dive"`
	Mode           string                `json:"mode" validate:"omitempty,oneof=normal review"`
	ElapsedSeconds *int                  `json:"elapsed_seconds" validate:"omitempty,min=0"`
}

func TestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		testID, err := c.ParamsInt("id")
		if err != nil || testID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid test id!", nil)
		}

		c.Locals("testID", uint(testID))
		return c.Next()
	}
}

func GetTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &struct {
			Difficulties  []string
			Tags          []string
			OnlyIncorrect bool
			Limit         int
		}{
			Difficulties:  queryList(c, "difficulty"),
			Tags:          queryList(c, "tag"),
			OnlyIncorrect: c.QueryBool("only_incorrect"),
			Limit:         c.QueryInt("limit"),
		}

		errors := make(map[string]string)
		for _, d := range reqData.Difficulties {
			if d != "easy" && d != "normal" && d != "hard" {
				errors["difficulty"] = "Difficulty must be easy, normal or hard!"
			}
		}
		if reqData.Limit < 0 || reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 0 and 100!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFilter", reqData)
		return c.Next()
	}
}

// queryList collects every value sent for key, accepting both repeated
// parameters and comma-separated lists.
func queryList(c *fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func ScoreTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScoreTestRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Answers":
					errors["answers"] = "Answers are required!"
				case "Mode":
					errors["mode"] = "Mode must be normal or review!"
				case "ElapsedSeconds":
					errors["elapsed_seconds"] = "Elapsed seconds must be 0 or greater!"
				default:
					errors["answers"] = "Each answer needs a question_id and a choice_id!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Mode == "" {
			reqData.Mode = services.TestModeNormal
		}

		c.Locals("validatedScore", reqData)
		return c.Next()
	}
}
