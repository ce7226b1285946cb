package progressController

import (
	"anwaar/database"
	"anwaar/manifest"
	"anwaar/middleware"
	"anwaar/models"
	"anwaar/utils"
	"anwaar/validators/progressValidator"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetProgress returns the session's progress rows, optionally scoped to a
// comma-separated ?lessons= list so a course page never pulls unrelated rows.
func GetProgress(c *fiber.Ctx) error {
	keyID, ok := c.Locals("keyId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.Where("access_key_id = ?", keyID)

	if raw := strings.TrimSpace(c.Query("lessons")); raw != "" {
		ids := make([]int, 0, 4)
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lessons filter!", nil)
			}
			ids = append(ids, id)
		}
		db = db.Where("lesson_id IN ?", ids)
	}

	var rows []models.StudentProgress
	if err := db.Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rows)
}

// UpsertProgress writes one progress row. last_position is last-write-wins;
// is_completed is OR-combined with the stored value so a completed lesson can
// never be downgraded, whatever a client sends.
func UpsertProgress(c *fiber.Ctx) error {
	keyID, ok := c.Locals("keyId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProgress").(*progressValidator.UpsertRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	tx := database.Database.Db.Begin()

	var existing models.StudentProgress
	err := tx.Where("access_key_id = ? AND lesson_id = ?", keyID, *reqData.LessonID).First(&existing).Error

	firstCompletion := reqData.IsCompleted && (err == gorm.ErrRecordNotFound || !existing.IsCompleted)

	switch {
	case err == nil:
		updates := map[string]interface{}{
			"last_position": reqData.LastPosition,
			"surah_id":      reqData.SurahID,
			"is_completed":  reqData.IsCompleted || existing.IsCompleted, // monotonic
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
		}
	case err == gorm.ErrRecordNotFound:
		row := models.StudentProgress{
			AccessKeyID:  keyID,
			LessonID:     *reqData.LessonID,
			SurahID:      reqData.SurahID,
			LastPosition: reqData.LastPosition,
			IsCompleted:  reqData.IsCompleted,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
		}
	default:
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	if firstCompletion && isFinalLesson(reqData.SurahID, *reqData.LessonID) {
		notifyInstructorByEmail(keyID, reqData.SurahID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", nil)
}

// isFinalLesson reports whether the lesson is the last one of its surah.
func isFinalLesson(surahID, lessonID int) bool {
	course, ok := manifest.Lookup(surahID)
	if !ok || !course.Available() {
		return false
	}
	return course.Lessons[len(course.Lessons)-1].ID == lessonID
}

// notifyInstructorByEmail mails the instructor about a finished surah. Fire
// and forget; the progress write already succeeded.
func notifyInstructorByEmail(keyID string, surahID int) {
	var key models.AccessKey
	if err := database.Database.Db.Where("key_id = ?", keyID).First(&key).Error; err != nil {
		log.Printf("Error loading key for completion email: %v", err)
		return
	}
	course, _ := manifest.Lookup(surahID)

	go func() {
		if err := utils.SendCourseCompletionEmail(key.StudentName, course.NameSomali); err != nil {
			log.Printf("Error sending completion email: %v", err)
		}
	}()
}
