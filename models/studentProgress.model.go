package models

import "gorm.io/gorm"

// StudentProgress is one row per (access key, lesson) pair.
// LastPosition is last-write-wins; IsCompleted is monotonic — once true it
// must never be written back to false (enforced in the upsert handler).
type StudentProgress struct {
	gorm.Model
	AccessKeyID  string  `json:"student_access_key_id" gorm:"index:idx_progress_key_lesson,unique;not null"`
	LessonID     int     `json:"lesson_id" gorm:"index:idx_progress_key_lesson,unique;not null"`
	SurahID      int     `json:"surah_id" gorm:"index;default:1"`
	LastPosition float64 `json:"last_position" gorm:"default:0"`
	IsCompleted  bool    `json:"is_completed" gorm:"default:false"`
}
