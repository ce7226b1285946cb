package authValidator

import (
	"anwaar/middleware"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Access codes are admin-generated (ANW-1234 style); only alphanumeric,
// dash and underscore are ever valid.
var accessCodeRe = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// LoginRequest is the student login body.
type LoginRequest struct {
	StudentName string `json:"studentName" validate:"required,max=100"`
	AccessCode  string `json:"accessCode" validate:"required,max=50"`
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.StudentName = strings.TrimSpace(reqData.StudentName)
		reqData.AccessCode = strings.TrimSpace(reqData.AccessCode)

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "StudentName":
					errors["studentName"] = "Student name is required!"
				case "AccessCode":
					errors["accessCode"] = "Access code is required!"
				}
			}
		}

		if reqData.AccessCode != "" && !accessCodeRe.MatchString(reqData.AccessCode) {
			errors["accessCode"] = "Invalid access code format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
