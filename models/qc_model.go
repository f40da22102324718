package models

import "time"

type QCTask struct {
	ID          uint         `json:"taskId" gorm:"primaryKey"`
	ReturnID    uint         `json:"returnId" gorm:"index"`
	ProductID   string       `json:"productId" gorm:"size:20;index"`
	ProductName string       `json:"productName"`
	ProductType string       `json:"productType"`
	Status      QCTaskStatus `json:"status" gorm:"size:20;index"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type QCReport struct {
	ReportID       uint          `json:"reportId" gorm:"primaryKey"`
	ProductID      string        `json:"productId" gorm:"size:20;index"`
	DefectType     string        `json:"defectType"`
	Severity       string        `json:"severity"`
	Notes          string        `json:"notes"`
	FinalDecision  FinalDecision `json:"finalDecision" gorm:"size:20"`
	InspectorName  string        `json:"inspectorName"`
	InspectionDate time.Time     `json:"inspectionDate"`
	CreatedAt      time.Time     `json:"createdAt"`
}
