package accessController

import (
	"anwaar/database"
	"anwaar/manifest"
	"anwaar/middleware"
	"anwaar/models"
	"anwaar/realtime"
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// Bus is wired from main before the routes are mounted.
var Bus realtime.Bus

// Shortened in tests so a stream test does not wait out a real interval.
var streamHeartbeat = 15 * time.Second

// GetAccess returns the surah ids unlocked for the session. The free surah
// is always included, even when the table has no rows for the student.
func GetAccess(c *fiber.Ctx) error {
	keyID, ok := c.Locals("keyId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var rows []models.SurahAccess
	if err := database.Database.Db.
		Where("access_key_id = ? AND is_unlocked = ?", keyID, true).
		Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch access!", nil)
	}

	unlocked := []int{manifest.FreeSurahID}
	for _, row := range rows {
		if row.SurahID != manifest.FreeSurahID {
			unlocked = append(unlocked, row.SurahID)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access fetched successfully!", fiber.Map{
		"unlocked": unlocked,
	})
}

// StreamAccess is the SSE feed of access changes for the session's key.
// Admin unlocks show up here within one delivery cycle; heartbeat comments
// keep proxies from closing the idle connection.
func StreamAccess(c *fiber.Ctx) error {
	keyID, ok := c.Locals("keyId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if Bus == nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Realtime feed unavailable!", nil)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		events, cancel := Bus.Subscribe()
		defer cancel()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case event, open := <-events:
				if !open {
					return
				}
				if event.KeyID != keyID {
					continue
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: access\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return // client went away
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
