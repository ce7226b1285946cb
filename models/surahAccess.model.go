package models

import "gorm.io/gorm"

// SurahAccess records whether an admin has unlocked a surah for a student.
// Surah 1 (Al-Faatixa) is free for everyone and never consulted here.
type SurahAccess struct {
	gorm.Model
	AccessKeyID string `json:"student_key_id" gorm:"index:idx_access_key_surah,unique;not null"`
	SurahID     int    `json:"surah_id" gorm:"index:idx_access_key_surah,unique;not null"`
	IsUnlocked  bool   `json:"is_unlocked" gorm:"default:false"`
}
