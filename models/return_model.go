package models

import "time"

type Return struct {
	ID              uint         `json:"returnId" gorm:"primaryKey"`
	ReturnCode      string       `json:"returnCode" gorm:"size:50;uniqueIndex;not null"`
	CustomerName    string       `json:"customerName"`
	CustomerPhone   string       `json:"customerPhone"`
	Location        string       `json:"location"`
	PickupTime      *time.Time   `json:"pickupTime"`
	PickupStatus    PickupStatus `json:"pickupStatus" gorm:"size:20;index"`
	PickupAgentID   *uint        `json:"pickupAgentId" gorm:"index"`
	ProductID       *uint        `json:"productId"`
	Product         *Product     `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	ProductCategory string       `json:"productCategory"`
	QCResult        string       `json:"qcResult"`
	CreatedAt       time.Time    `json:"createdAt"`
	CompletedAt     *time.Time   `json:"completedAt"`
	FailedAt        *time.Time   `json:"failedAt"`
}
