package progressValidator

import (
	"anwaar/manifest"
	"anwaar/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// UpsertRequest is one progress write. LessonID is a pointer so that lesson
// id 0 (the first lesson) survives the required check.
type UpsertRequest struct {
	SurahID      int     `json:"surah_id" validate:"required,min=1"`
	LessonID     *int    `json:"lesson_id" validate:"required,min=0"`
	LastPosition float64 `json:"last_position" validate:"min=0"`
	IsCompleted  bool    `json:"is_completed"`
}

// Upsert validator middleware
func Upsert() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpsertRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "SurahID":
					errors["surah_id"] = "A valid surah id is required!"
				case "LessonID":
					errors["lesson_id"] = "A valid lesson id is required!"
				case "LastPosition":
					errors["last_position"] = "Position cannot be negative!"
				}
			}
		}

		// The surah must exist in the curriculum
		if reqData.SurahID > 0 {
			if _, ok := manifest.Lookup(reqData.SurahID); !ok {
				errors["surah_id"] = "Unknown surah!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
