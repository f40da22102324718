package models

import "time"

type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserRole  NotificationRole `json:"userRole" gorm:"size:20;index"`
	UserID    *uint            `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
}
