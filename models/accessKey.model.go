package models

import (
	"time"

	"gorm.io/gorm"
)

// AccessKey is one student's login credential, created by an admin.
// KeyID is the public identity every per-student record hangs off.
type AccessKey struct {
	gorm.Model
	KeyID       string     `json:"key_id" gorm:"uniqueIndex;not null"`
	StudentName string     `json:"student_name" gorm:"not null"`
	AccessCode  string     `json:"access_code" gorm:"uniqueIndex;not null"`
	Phone       string     `json:"phone" gorm:"default:''"`
	Role        string     `json:"role" gorm:"default:'STUDENT'"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLogin   *time.Time `json:"last_login"`
	IsDeleted   bool       `gorm:"default:false"`

	Access []SurahAccess `json:"surah_access,omitempty" gorm:"foreignKey:AccessKeyID;references:KeyID"`
}
