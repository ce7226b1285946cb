package adminValidator

import (
	"anwaar/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// LoginRequest is the admin panel login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=100"`
}

// CreateKeyRequest mints a new student access key.
type CreateKeyRequest struct {
	StudentName string `json:"studentName" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
}

// RevokeKeyRequest activates or deactivates a key.
type RevokeKeyRequest struct {
	KeyID    string `json:"keyId" validate:"required,uuid4"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// ToggleAccessRequest flips one (student, surah) unlock.
type ToggleAccessRequest struct {
	KeyID      string `json:"keyId" validate:"required,uuid4"`
	SurahID    *int   `json:"surahId" validate:"required,min=1"`
	IsUnlocked *bool  `json:"isUnlocked" validate:"required"`
}

// BulkAccessRequest grants one surah to many students.
type BulkAccessRequest struct {
	KeyIDs  []string `json:"keyIds" validate:"required,min=1,max=200,dive,uuid4"`
	SurahID *int     `json:"surahId" validate:"required,min=1"`
}

// structErrors flattens validator errors into the field->message map the
// response envelope expects.
func structErrors(err error) map[string]string {
	errors := make(map[string]string)
	if err == nil {
		return errors
	}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]
		switch fieldErr.Tag() {
		case "required":
			errors[field] = "This field is required!"
		case "uuid4":
			errors[field] = "Must be a valid key id!"
		case "min":
			errors[field] = "Value is too small!"
		case "max":
			errors[field] = "Value is too large!"
		default:
			errors[field] = "Invalid value!"
		}
	}
	return errors
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)

		if errors := structErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminLogin", reqData)
		return c.Next()
	}
}

// CreateKey validator middleware
func CreateKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateKeyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.StudentName = strings.TrimSpace(reqData.StudentName)

		if errors := structErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateKey", reqData)
		return c.Next()
	}
}

// RevokeKey validator middleware
func RevokeKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RevokeKeyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := structErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRevokeKey", reqData)
		return c.Next()
	}
}

// ToggleAccess validator middleware
func ToggleAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ToggleAccessRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := structErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedToggleAccess", reqData)
		return c.Next()
	}
}

// BulkAccess validator middleware
func BulkAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BulkAccessRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := structErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBulkAccess", reqData)
		return c.Next()
	}
}
