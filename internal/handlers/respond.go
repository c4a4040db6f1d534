package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/models"
)

var validate = validator.New()

// fail writes the uniform error envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// parseBody decodes the JSON body into a typed request struct and runs its
// validate tags. Returns a field-specific message on the first violation.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if ok := toValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			fe := verrs[0]
			switch fe.Tag() {
			case "required":
				return fmt.Errorf("%s is required", fieldName(fe))
			case "min", "max", "gt", "gte", "lte":
				return fmt.Errorf("%s is out of range", fieldName(fe))
			case "oneof":
				return fmt.Errorf("%s must be one of: %s", fieldName(fe), fe.Param())
			default:
				return fmt.Errorf("%s is invalid", fieldName(fe))
			}
		}
		return fmt.Errorf("invalid request body")
	}
	return nil
}

func toValidationErrors(err error, out *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*out = verrs
	}
	return ok
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

// canMutate is the ownership predicate evaluated before every mutating
// operation. Not atomic with the subsequent write.
func canMutate(postedBy string, requester *models.User) bool {
	if requester == nil {
		return false
	}
	return postedBy == requester.UserID || requester.IsAdmin()
}
