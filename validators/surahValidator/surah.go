package surahValidator

import (
	"anwaar/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// DetailsRequest asks for the AI-generated surah info card.
type DetailsRequest struct {
	SurahName string `json:"surahName" validate:"required,max=100"`
}

// Details validator middleware
func Details() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DetailsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.SurahName = strings.TrimSpace(reqData.SurahName)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"surahName": "Surah name is required!",
			})
		}

		c.Locals("validatedSurahDetails", reqData)
		return c.Next()
	}
}
