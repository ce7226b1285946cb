package adminController

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"anwaar/database"
	"anwaar/models"
	"anwaar/realtime"
	"anwaar/validators/adminValidator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *realtime.MemoryBus) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	database.RunMigrations(db)

	previousDb := database.Database
	database.Database = database.DbInstance{Db: db}
	bus := realtime.NewMemoryBus()
	previousBus := Bus
	Bus = bus
	t.Cleanup(func() {
		database.Database = previousDb
		Bus = previousBus
		bus.Close()
	})

	app := fiber.New()
	app.Post("/admin/keys", adminValidator.CreateKey(), CreateAccessKey)
	app.Post("/admin/keys/revoke", adminValidator.RevokeKey(), RevokeAccessKey)
	app.Post("/admin/access/toggle", adminValidator.ToggleAccess(), ToggleAccess)
	app.Post("/admin/access/bulk", adminValidator.BulkAccess(), BulkGrantAccess)
	app.Get("/admin/stats", GetStats)
	return app, bus
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func seedKey(t *testing.T, name string) models.AccessKey {
	t.Helper()
	key := models.AccessKey{
		KeyID:       uuid.NewString(),
		StudentName: name,
		AccessCode:  "ANW-" + uuid.NewString()[:4],
		IsActive:    true,
	}
	require.NoError(t, database.Database.Db.Create(&key).Error)
	return key
}

func TestCreateAccessKeyReturnsCode(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := postJSON(t, app, "/admin/keys", map[string]interface{}{
		"studentName": "Aamina Xasan",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env struct {
		Data struct {
			KeyID      string `json:"keyId"`
			AccessCode string `json:"accessCode"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.NotEmpty(t, env.Data.KeyID)
	assert.Regexp(t, `^ANW-\d{4}$`, env.Data.AccessCode)

	var stored models.AccessKey
	require.NoError(t, database.Database.Db.Where("key_id = ?", env.Data.KeyID).First(&stored).Error)
	assert.True(t, stored.IsActive)
}

func TestDuplicateAccessCodeTranslatesToDuplicatedKey(t *testing.T) {
	setupTestApp(t)
	seedExisting := models.AccessKey{
		KeyID:       uuid.NewString(),
		StudentName: "Aamina Xasan",
		AccessCode:  "ANW-1111",
		IsActive:    true,
	}
	require.NoError(t, database.Database.Db.Create(&seedExisting).Error)

	clash := models.AccessKey{
		KeyID:       uuid.NewString(),
		StudentName: "Maxamed Cali",
		AccessCode:  "ANW-1111",
		IsActive:    true,
	}
	err := database.Database.Db.Create(&clash).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey),
		"unique violation must surface as gorm.ErrDuplicatedKey, got %v", err)
}

func TestCreateAccessKeyRetriesOnCodeCollision(t *testing.T) {
	app, _ := setupTestApp(t)
	taken := models.AccessKey{
		KeyID:       uuid.NewString(),
		StudentName: "Aamina Xasan",
		AccessCode:  "ANW-1111",
		IsActive:    true,
	}
	require.NoError(t, database.Database.Db.Create(&taken).Error)

	codes := []string{"ANW-1111", "ANW-2222"}
	previous := generateAccessCode
	generateAccessCode = func() string {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code
	}
	t.Cleanup(func() { generateAccessCode = previous })

	resp := postJSON(t, app, "/admin/keys", map[string]interface{}{
		"studentName": "Maxamed Cali",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env struct {
		Data struct {
			AccessCode string `json:"accessCode"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "ANW-2222", env.Data.AccessCode)
}

func TestRevokeAccessKey(t *testing.T) {
	app, _ := setupTestApp(t)
	key := seedKey(t, "Aamina Xasan")

	resp := postJSON(t, app, "/admin/keys/revoke", map[string]interface{}{
		"keyId":    key.KeyID,
		"isActive": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.AccessKey
	require.NoError(t, database.Database.Db.Where("key_id = ?", key.KeyID).First(&stored).Error)
	assert.False(t, stored.IsActive)
}

func TestRevokeUnknownKeyIs404(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := postJSON(t, app, "/admin/keys/revoke", map[string]interface{}{
		"keyId":    uuid.NewString(),
		"isActive": false,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleAccessWritesRowAndPublishes(t *testing.T) {
	app, bus := setupTestApp(t)
	key := seedKey(t, "Aamina Xasan")

	events, cancel := bus.Subscribe()
	defer cancel()

	resp := postJSON(t, app, "/admin/access/toggle", map[string]interface{}{
		"keyId":      key.KeyID,
		"surahId":    103,
		"isUnlocked": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var row models.SurahAccess
	require.NoError(t, database.Database.Db.
		Where("access_key_id = ? AND surah_id = ?", key.KeyID, 103).
		First(&row).Error)
	assert.True(t, row.IsUnlocked)

	event := <-events
	assert.Equal(t, realtime.AccessEvent{KeyID: key.KeyID, SurahID: 103, IsUnlocked: true}, event)

	// flipping back updates the same row
	resp = postJSON(t, app, "/admin/access/toggle", map[string]interface{}{
		"keyId":      key.KeyID,
		"surahId":    103,
		"isUnlocked": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.
		Where("access_key_id = ? AND surah_id = ?", key.KeyID, 103).
		First(&row).Error)
	assert.False(t, row.IsUnlocked)

	event = <-events
	assert.False(t, event.IsUnlocked)
}

func TestBulkGrantAccess(t *testing.T) {
	app, _ := setupTestApp(t)
	first := seedKey(t, "Aamina Xasan")
	second := seedKey(t, "Maxamed Cali")

	resp := postJSON(t, app, "/admin/access/bulk", map[string]interface{}{
		"keyIds":  []string{first.KeyID, second.KeyID},
		"surahId": 103,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data struct {
			Granted int `json:"granted"`
			Total   int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, 2, env.Data.Granted)
	assert.Equal(t, 2, env.Data.Total)

	var count int64
	require.NoError(t, database.Database.Db.Model(&models.SurahAccess{}).
		Where("surah_id = ? AND is_unlocked = ?", 103, true).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestGetStats(t *testing.T) {
	app, _ := setupTestApp(t)
	key := seedKey(t, "Aamina Xasan")

	progress := models.StudentProgress{
		AccessKeyID: key.KeyID, LessonID: 0, SurahID: 1,
		LastPosition: 300, IsCompleted: true,
	}
	require.NoError(t, database.Database.Db.Create(&progress).Error)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data struct {
			TotalStudents    int64 `json:"total_students"`
			ActiveKeys       int64 `json:"active_keys"`
			LessonsCompleted int64 `json:"lessons_completed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, int64(1), env.Data.TotalStudents)
	assert.Equal(t, int64(1), env.Data.ActiveKeys)
	assert.Equal(t, int64(1), env.Data.LessonsCompleted)
}
