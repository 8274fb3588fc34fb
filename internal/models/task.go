package models

import "time"

// Task is a single to-do item.
type Task struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"type:text;not null"`
	Complete  bool   `gorm:"index;not null"`
	Date      string `gorm:"size:16"` // DD-MM-YYYY HH:MM, configured timezone
	CreatedAt time.Time
}
