package repositories

import (
	"context"
	"retrack-app/models"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db}
}

func (r *ReportRepository) CreateIssue(ctx context.Context, issue *models.IssueReport) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

func (r *ReportRepository) ListIssues(ctx context.Context) ([]models.IssueReport, error) {
	var out []models.IssueReport
	err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&out).Error
	return out, err
}

func (r *ReportRepository) FindIssue(ctx context.Context, id uint) (*models.IssueReport, error) {
	var issue models.IssueReport
	if err := r.db.WithContext(ctx).First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *ReportRepository) SaveIssue(ctx context.Context, issue *models.IssueReport) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

// LastIssueID returns the highest issue id currently stored, or "" if none.
func (r *ReportRepository) LastIssueID(ctx context.Context) (string, error) {
	var issue models.IssueReport
	err := r.db.WithContext(ctx).Order("id desc").First(&issue).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	return issue.IssueID, err
}

func (r *ReportRepository) CreateAgentReport(ctx context.Context, report *models.AgentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) ListAgentReports(ctx context.Context, agentID uint) ([]models.AgentReport, error) {
	var out []models.AgentReport
	q := r.db.WithContext(ctx).Order("created_at desc, report_id desc")
	if agentID != 0 {
		q = q.Where("agent_id = ?", agentID)
	}
	err := q.Find(&out).Error
	return out, err
}
