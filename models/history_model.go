package models

import (
	"retrack-app/controllers/idgen"
	"retrack-app/types"
	"time"

	"gorm.io/gorm"
)

// AuditLog records every state transition of returns, bags and bag items.
type AuditLog struct {
	ID                types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Entity            string            `json:"entity" gorm:"size:30;index"`
	EntityID          string            `json:"entityId" gorm:"size:50;index"`
	Action            string            `json:"action" gorm:"size:50"`
	Details           string            `json:"details"`
	PerformedByUserID *uint             `json:"performedByUserId" gorm:"index"`
	CreatedAt         time.Time         `json:"createdAt" gorm:"index"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
