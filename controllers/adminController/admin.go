package adminController

import (
	"anwaar/database"
	"anwaar/middleware"
	"anwaar/models"
	"anwaar/realtime"
	"anwaar/utils"
	"anwaar/validators/adminValidator"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Bus receives an event for every access change so live student sessions
// update without a refresh. Wired from main.
var Bus realtime.Bus

// Swappable in tests to force code collisions.
var generateAccessCode = utils.GenerateAccessCode

// Login authenticates an admin account (bcrypt) and issues an 8h token.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminLogin").(*adminValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var admin models.Admin
	if err := database.Database.Db.
		Where("LOWER(username) = LOWER(?) AND is_deleted = ?", reqData.Username, false).
		First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	token, err := middleware.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		log.Printf("Error generating admin token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Authentication failed", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"sessionToken": token,
		"username":     admin.Username,
	})
}

// CreateAccessKey mints a new student key with a generated ANW- code. The
// code is returned once here; afterwards only the admin key list shows it.
func CreateAccessKey(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateKey").(*adminValidator.CreateKeyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Retry on the rare code collision
	var key models.AccessKey
	for attempt := 0; attempt < 5; attempt++ {
		key = models.AccessKey{
			KeyID:       uuid.NewString(),
			StudentName: reqData.StudentName,
			AccessCode:  generateAccessCode(),
			Phone:       reqData.Phone,
			IsActive:    true,
		}
		if err := db.Create(&key).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusCreated, true, "Access key created successfully!", fiber.Map{
				"keyId":       key.KeyID,
				"studentName": key.StudentName,
				"accessCode":  key.AccessCode,
				"createdAt":   key.CreatedAt,
			})
		} else if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("Error creating access key: %v", err)
			break
		}
	}

	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create access key!", nil)
}

// GetRecentKeys lists the latest keys with their surah access rows preloaded.
func GetRecentKeys(c *fiber.Ctx) error {
	var keys []models.AccessKey
	if err := database.Database.Db.
		Where("is_deleted = ?", false).
		Preload("Access").
		Order("created_at desc").
		Limit(50).
		Find(&keys).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch access keys!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access keys fetched successfully!", keys)
}

// RevokeAccessKey deactivates a key; the student's next session verify fails.
func RevokeAccessKey(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRevokeKey").(*adminValidator.RevokeKeyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	result := database.Database.Db.Model(&models.AccessKey{}).
		Where("key_id = ? AND is_deleted = ?", reqData.KeyID, false).
		Update("is_active", *reqData.IsActive)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update access key!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Access key not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access key updated successfully!", nil)
}

// ToggleAccess flips one (student, surah) unlock and publishes the change.
func ToggleAccess(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedToggleAccess").(*adminValidator.ToggleAccessRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if err := upsertAccess(c, reqData.KeyID, *reqData.SurahID, *reqData.IsUnlocked); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access updated successfully!", nil)
}

// BulkGrantAccess unlocks one surah for many students at once.
func BulkGrantAccess(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBulkAccess").(*adminValidator.BulkAccessRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	granted := 0
	for _, keyID := range reqData.KeyIDs {
		if err := upsertAccess(c, keyID, *reqData.SurahID, true); err != nil {
			log.Printf("Error granting surah %d to key %s: %v", *reqData.SurahID, keyID, err)
			continue
		}
		granted++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access granted successfully!", fiber.Map{
		"granted": granted,
		"total":   len(reqData.KeyIDs),
	})
}

// upsertAccess writes the access row and publishes the realtime event.
func upsertAccess(c *fiber.Ctx, keyID string, surahID int, unlocked bool) error {
	db := database.Database.Db

	var existing models.SurahAccess
	err := db.Where("access_key_id = ? AND surah_id = ?", keyID, surahID).First(&existing).Error

	switch {
	case err == nil:
		if err := db.Model(&existing).Update("is_unlocked", unlocked).Error; err != nil {
			return err
		}
	case err == gorm.ErrRecordNotFound:
		row := models.SurahAccess{AccessKeyID: keyID, SurahID: surahID, IsUnlocked: unlocked}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	default:
		return err
	}

	if Bus != nil {
		event := realtime.AccessEvent{KeyID: keyID, SurahID: surahID, IsUnlocked: unlocked}
		if err := Bus.Publish(c.Context(), event); err != nil {
			log.Printf("Error publishing access event: %v", err)
		}
	}
	return nil
}

// GetStats returns the dashboard aggregates.
func GetStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalStudents, activeKeys, lessonsCompleted int64
	if err := db.Model(&models.AccessKey{}).Where("is_deleted = ?", false).Count(&totalStudents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}
	if err := db.Model(&models.AccessKey{}).Where("is_active = ? AND is_deleted = ?", true, false).Count(&activeKeys).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}
	if err := db.Model(&models.StudentProgress{}).Where("is_completed = ?", true).Count(&lessonsCompleted).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", fiber.Map{
		"total_students":    totalStudents,
		"active_keys":       activeKeys,
		"lessons_completed": lessonsCompleted,
	})
}
