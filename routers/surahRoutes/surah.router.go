package surahRoutes

import (
	surahController "anwaar/controllers/surahController"
	"anwaar/middleware"
	surahValidator "anwaar/validators/surahValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupSurahRoutes(app *fiber.App) {
	surahGroup := app.Group("/surah")

	surahGroup.Get("/list", middleware.JWTMiddleware, surahController.ListSurahs)
	surahGroup.Post("/details", surahValidator.Details(), middleware.JWTMiddleware, surahController.GetSurahDetails)
	surahGroup.Get("/:id", middleware.JWTMiddleware, surahController.GetSurah)
}
