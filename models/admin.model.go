package models

import "gorm.io/gorm"

// Admin is a panel account. Password is stored bcrypt-hashed.
type Admin struct {
	gorm.Model
	Username  string `json:"username" gorm:"uniqueIndex;not null"`
	Password  string `json:"-" gorm:"not null"`
	IsDeleted bool   `gorm:"default:false"`
}
