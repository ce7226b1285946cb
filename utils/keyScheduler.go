package utils

import (
	"anwaar/database"
	"anwaar/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeKeyScheduler sets up the nightly maintenance jobs
func InitializeKeyScheduler() {
	log.Println("[KEY-SCHEDULER] Initializing key scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[KEY-SCHEDULER] Running daily maintenance...")
		DeactivateStaleKeys()
		PurgeOldLoginTracking()
		LogStatsSnapshot()
	})

	c.Start()
	log.Println("[KEY-SCHEDULER] Key scheduler started - runs daily at 3 AM")
}

// DeactivateStaleKeys turns off keys that have never been used and are older
// than 90 days, so forgotten codes cannot be shared around later.
func DeactivateStaleKeys() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -90)

	result := db.Model(&models.AccessKey{}).
		Where("is_active = ? AND last_login IS NULL AND created_at < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		log.Printf("[KEY-SCHEDULER] Error deactivating stale keys: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[KEY-SCHEDULER] Deactivated %d stale keys", result.RowsAffected)
	}
}

// PurgeOldLoginTracking soft-deletes audit rows older than 180 days
func PurgeOldLoginTracking() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -180)

	result := db.Model(&models.LoginTracking{}).
		Where("is_deleted = ? AND created_at < ?", false, cutoff).
		Update("is_deleted", true)
	if result.Error != nil {
		log.Printf("[KEY-SCHEDULER] Error purging login tracking: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[KEY-SCHEDULER] Purged %d login tracking rows", result.RowsAffected)
	}
}

// LogStatsSnapshot writes the dashboard aggregates to the log once a day
func LogStatsSnapshot() {
	db := database.Database.Db

	var students, completions int64
	if err := db.Model(&models.AccessKey{}).Where("is_deleted = ?", false).Count(&students).Error; err != nil {
		log.Printf("[KEY-SCHEDULER] Error counting students: %v", err)
		return
	}
	if err := db.Model(&models.StudentProgress{}).Where("is_completed = ?", true).Count(&completions).Error; err != nil {
		log.Printf("[KEY-SCHEDULER] Error counting completions: %v", err)
		return
	}

	log.Printf("[KEY-SCHEDULER] Snapshot: %d students, %d lessons completed", students, completions)
}
