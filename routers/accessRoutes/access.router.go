package accessRoutes

import (
	accessController "anwaar/controllers/accessController"
	"anwaar/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAccessRoutes(app *fiber.App) {
	accessGroup := app.Group("/access")

	accessGroup.Get("/", middleware.JWTMiddleware, accessController.GetAccess)
	accessGroup.Get("/stream", middleware.JWTMiddleware, accessController.StreamAccess)
}
