package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginTracking struct {
	gorm.Model
	AccessKeyID string    `json:"access_key_id"`
	StudentName string    `json:"student_name"`
	IPAddress   string    `json:"ip_address"`
	Device      string    `json:"device"`
	Timestamp   time.Time `json:"timestamp"`
	Success     bool      `json:"success" gorm:"default:true"`
	IsDeleted   bool      `gorm:"default:false"`
}
