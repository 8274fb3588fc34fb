package models

import "time"

// User is the stored credential used when auth.mode is "db".
type User struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LastLoginAt *time.Time
	LastLoginIP string `gorm:"size:64"`
}
