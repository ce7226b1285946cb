package progressRoutes

import (
	progressController "anwaar/controllers/progressController"
	"anwaar/middleware"
	progressValidator "anwaar/validators/progressValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Get("/", middleware.JWTMiddleware, progressController.GetProgress)
	progressGroup.Post("/", progressValidator.Upsert(), middleware.JWTMiddleware, progressController.UpsertProgress)
}
