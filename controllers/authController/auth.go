package authController

import (
	"anwaar/database"
	"anwaar/middleware"
	"anwaar/models"
	"anwaar/validators/authValidator"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Login validates a (student name, access code) pair and issues a session
// token. Error messages for bad codes stay in Somali like the student UI.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var key models.AccessKey
	if err := db.Where("access_code = ? AND is_active = ? AND is_deleted = ?", reqData.AccessCode, true, false).
		First(&key).Error; err != nil {
		trackLogin(c, "", reqData.StudentName, false)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Furaha aan sax ahayn", nil)
	}

	// Name must match the key, case-insensitively
	if strings.ToLower(strings.TrimSpace(key.StudentName)) != strings.ToLower(reqData.StudentName) {
		trackLogin(c, key.KeyID, reqData.StudentName, false)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Magaca iyo furaha ma isku waafaqsana", nil)
	}

	token, err := middleware.GenerateSessionToken(key.KeyID, key.StudentName)
	if err != nil {
		log.Printf("Error generating session token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	now := time.Now()
	key.LastLogin = &now
	if err := db.Model(&key).Update("last_login", now).Error; err != nil {
		log.Printf("Error updating last login: %v", err)
	}
	trackLogin(c, key.KeyID, key.StudentName, true)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"sessionToken": token,
		"studentName":  key.StudentName,
		"keyId":        key.KeyID,
	})
}

// VerifySession re-validates a stored session: the token must parse (JWT
// middleware) and the key must still be active. Revoked keys force logout.
func VerifySession(c *fiber.Ctx) error {
	keyID, ok := c.Locals("keyId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var key models.AccessKey
	if err := database.Database.Db.
		Where("key_id = ? AND is_active = ? AND is_deleted = ?", keyID, true, false).
		First(&key).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access revoked", fiber.Map{"valid": false})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session valid.", fiber.Map{
		"valid":       true,
		"studentName": key.StudentName,
		"keyId":       key.KeyID,
	})
}

// trackLogin writes an audit row; failures only log.
func trackLogin(c *fiber.Ctx, keyID, studentName string, success bool) {
	entry := models.LoginTracking{
		AccessKeyID: keyID,
		StudentName: studentName,
		IPAddress:   c.IP(),
		Device:      c.Get("User-Agent"),
		Timestamp:   time.Now(),
		Success:     success,
	}
	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("Error saving login tracking: %v", err)
	}
}
