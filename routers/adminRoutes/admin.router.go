package adminRoutes

import (
	adminController "anwaar/controllers/adminController"
	"anwaar/middleware"
	adminValidator "anwaar/validators/adminValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Post("/login", adminValidator.Login(), adminController.Login)
	adminGroup.Post("/keys", adminValidator.CreateKey(), middleware.AdminJWTMiddleware, adminController.CreateAccessKey)
	adminGroup.Get("/keys/recent", middleware.AdminJWTMiddleware, adminController.GetRecentKeys)
	adminGroup.Post("/keys/revoke", adminValidator.RevokeKey(), middleware.AdminJWTMiddleware, adminController.RevokeAccessKey)
	adminGroup.Post("/access/toggle", adminValidator.ToggleAccess(), middleware.AdminJWTMiddleware, adminController.ToggleAccess)
	adminGroup.Post("/access/bulk", adminValidator.BulkAccess(), middleware.AdminJWTMiddleware, adminController.BulkGrantAccess)
	adminGroup.Get("/stats", middleware.AdminJWTMiddleware, adminController.GetStats)
}
