package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"retrack-app/models"
	"retrack-app/repositories"

	"gorm.io/gorm"
)

const issueStatusPending = "Pending"

type IssueService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewIssueService(db *gorm.DB) *IssueService {
	return &IssueService{db: db, now: time.Now}
}

// nextIssueID derives ISS### from the previous id. Ids past 999 simply grow.
func nextIssueID(last string) string {
	n := 0
	if strings.HasPrefix(last, "ISS") {
		n, _ = strconv.Atoi(strings.TrimPrefix(last, "ISS"))
	}
	return fmt.Sprintf("ISS%03d", n+1)
}

type IssueInput struct {
	BagID    *uint  `json:"bagId"`
	ReturnID *uint  `json:"returnId"`
	Type     string `json:"type" validate:"required"`
	Notes    string `json:"notes"`
}

func (s *IssueService) Create(ctx context.Context, in IssueInput) (*models.IssueReport, error) {
	if strings.TrimSpace(in.Type) == "" {
		return nil, validation("type is required")
	}
	var issue *models.IssueReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewReportRepository(tx)
		last, err := repo.LastIssueID(ctx)
		if err != nil {
			return err
		}
		issue = &models.IssueReport{
			IssueID:   nextIssueID(last),
			BagID:     in.BagID,
			ReturnID:  in.ReturnID,
			Type:      strings.TrimSpace(in.Type),
			Status:    issueStatusPending,
			Notes:     in.Notes,
			CreatedAt: s.now().UTC(),
		}
		if err := repo.CreateIssue(ctx, issue); err != nil {
			return storeErr(err, "Issue id already taken, retry")
		}
		return recordAudit(ctx, tx, EntityIssue, issue.IssueID, "Created", issue.Type)
	})
	return issue, err
}

func (s *IssueService) List(ctx context.Context) ([]models.IssueReport, error) {
	return repositories.NewReportRepository(s.db).ListIssues(ctx)
}

// UpdateStatus sets the issue status and stamps ResolvedAt.
func (s *IssueService) UpdateStatus(ctx context.Context, id uint, status string) (*models.IssueReport, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, validation("status is required")
	}
	var issue *models.IssueReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewReportRepository(tx)
		found, err := repo.FindIssue(ctx, id)
		if err != nil {
			return lookup(err, "Issue not found")
		}
		now := s.now().UTC()
		found.Status = status
		found.ResolvedAt = &now
		if err := repo.SaveIssue(ctx, found); err != nil {
			return err
		}
		issue = found
		return recordAudit(ctx, tx, EntityIssue, found.IssueID, "StatusChanged", status)
	})
	return issue, err
}
