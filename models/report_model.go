package models

import "time"

// IssueReport is raised by warehouse staff against a bag or a return.
type IssueReport struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	IssueID    string     `json:"issueId" gorm:"size:20;uniqueIndex"`
	BagID      *uint      `json:"bagId"`
	ReturnID   *uint      `json:"returnId"`
	Type       string     `json:"type"`
	Status     string     `json:"status" gorm:"size:20"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt"`
}

// AgentReport is filed by a pickup agent when a pickup cannot be completed.
type AgentReport struct {
	ReportID   uint      `json:"reportId" gorm:"primaryKey"`
	ReturnCode string    `json:"returnCode" gorm:"size:50;index"`
	ReturnID   *uint     `json:"returnId"`
	AgentID    uint      `json:"agentId" gorm:"index"`
	IssueType  string    `json:"issueType"`
	Notes      string    `json:"notes"`
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
