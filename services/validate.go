package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body. On failure it writes
// the 400 response itself and returns false.
func parseBody(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]fiber.Map, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fiber.Map{
					"field": fe.Field(),
					"rule":  fe.Tag(),
				})
			}
			c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": details})
			return false
		}
		c.Status(400).JSON(fiber.Map{"error": "validation failed"})
		return false
	}
	return true
}

func paramID(c *fiber.Ctx, name string) (int, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		c.Status(400).JSON(fiber.Map{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
