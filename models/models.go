package models

import (
	"time"
)

// FileLog menyimpan nama file intake yang sudah diproses
type FileLog struct {
	ID           uint      `gorm:"primaryKey"`
	Filename     string    `gorm:"unique;not null"`
	DateModified time.Time
	Imported     int
	Skipped      int
	CreatedAt    time.Time
}
