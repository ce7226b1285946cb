package authRoutes

import (
	authController "anwaar/controllers/authController"
	"anwaar/middleware"
	authValidator "anwaar/validators/authValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/verify", middleware.JWTMiddleware, authController.VerifySession)
}
