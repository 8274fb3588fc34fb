package models

import "time"

// StoredFile keeps an uploaded blob next to its metadata.
type StoredFile struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"size:255;not null"`
	Extension  string    `gorm:"size:255"`
	Size       int64     `gorm:"not null"`
	UploadedAt time.Time `gorm:"index;not null"`
	Data       []byte    `gorm:"not null"`
}

// FileInfo is StoredFile without the payload.
type FileInfo struct {
	ID         uint
	Name       string
	Extension  string
	Size       int64
	UploadedAt time.Time
}
