package progressController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anwaar/database"
	"anwaar/models"
	"anwaar/validators/progressValidator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testKeyID = "11111111-1111-4111-8111-111111111111"

// setupTestApp swaps the global database for an in-memory SQLite one and
// mounts the progress routes behind a stub session middleware.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	database.RunMigrations(db)

	previous := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = previous })

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("keyId", testKeyID)
		return c.Next()
	})
	app.Get("/progress/", GetProgress)
	app.Post("/progress/", progressValidator.Upsert(), UpsertProgress)
	return app
}

func postProgress(t *testing.T, app *fiber.App, body map[string]interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/progress/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func fetchRow(t *testing.T, lessonID int) models.StudentProgress {
	t.Helper()
	var row models.StudentProgress
	err := database.Database.Db.
		Where("access_key_id = ? AND lesson_id = ?", testKeyID, lessonID).
		First(&row).Error
	require.NoError(t, err)
	return row
}

func TestUpsertCreatesRow(t *testing.T) {
	app := setupTestApp(t)

	resp := postProgress(t, app, map[string]interface{}{
		"surah_id":      1,
		"lesson_id":     0,
		"last_position": 42.0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	row := fetchRow(t, 0)
	assert.Equal(t, 42.0, row.LastPosition)
	assert.False(t, row.IsCompleted)
}

func TestUpsertUpdatesPosition(t *testing.T) {
	app := setupTestApp(t)

	postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 0, "last_position": 42.0,
	})
	resp := postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 0, "last_position": 17.0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// last_position is last-write-wins, even backwards
	assert.Equal(t, 17.0, fetchRow(t, 0).LastPosition)
}

func TestCompletionIsMonotonic(t *testing.T) {
	app := setupTestApp(t)

	postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 0, "last_position": 300.0, "is_completed": true,
	})
	require.True(t, fetchRow(t, 0).IsCompleted)

	// a later write without the flag must not downgrade
	resp := postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 0, "last_position": 10.0, "is_completed": false,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	row := fetchRow(t, 0)
	assert.True(t, row.IsCompleted)
	assert.Equal(t, 10.0, row.LastPosition)
}

func TestUpsertAcceptsLessonZero(t *testing.T) {
	app := setupTestApp(t)

	resp := postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 0, "last_position": 0.0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpsertRejectsUnknownSurah(t *testing.T) {
	app := setupTestApp(t)

	resp := postProgress(t, app, map[string]interface{}{
		"surah_id": 999, "lesson_id": 0, "last_position": 0.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpsertRejectsMissingLesson(t *testing.T) {
	app := setupTestApp(t)

	resp := postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "last_position": 0.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetProgressFiltersByLessons(t *testing.T) {
	app := setupTestApp(t)

	postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 0, "last_position": 42.0,
	})
	postProgress(t, app, map[string]interface{}{
		"surah_id": 1, "lesson_id": 1, "last_position": 7.0,
	})

	req := httptest.NewRequest(http.MethodGet, "/progress/?lessons=1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Status bool                     `json:"status"`
		Data   []models.StudentProgress `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, 1, env.Data[0].LessonID)
	assert.Equal(t, 7.0, env.Data[0].LastPosition)
}

func TestGetProgressRejectsBadFilter(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/progress/?lessons=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProgressScopedToSession(t *testing.T) {
	app := setupTestApp(t)

	// a row for another student must never leak into the response
	other := models.StudentProgress{
		AccessKeyID: "22222222-2222-4222-8222-222222222222",
		LessonID:    0, SurahID: 1, LastPosition: 99,
	}
	require.NoError(t, database.Database.Db.Create(&other).Error)

	req := httptest.NewRequest(http.MethodGet, "/progress/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data []models.StudentProgress `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Empty(t, env.Data)
}
