package repositories

import (
	"context"
	"retrack-app/models"
	"time"

	"gorm.io/gorm"
)

type QCRepository struct {
	db *gorm.DB
}

func NewQCRepository(db *gorm.DB) *QCRepository {
	return &QCRepository{db}
}

func (r *QCRepository) CreateTasks(ctx context.Context, tasks []models.QCTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *QCRepository) ListTasks(ctx context.Context, status models.QCTaskStatus) ([]models.QCTask, error) {
	var tasks []models.QCTask
	q := r.db.WithContext(ctx).Order("created_at, id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&tasks).Error
	return tasks, err
}

func (r *QCRepository) FindTaskByProduct(ctx context.Context, productID string) (*models.QCTask, error) {
	var task models.QCTask
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at desc, id desc").First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteOldestPending marks the oldest pending task for productID completed.
// It returns false when no pending task exists.
func (r *QCRepository) CompleteOldestPending(ctx context.Context, productID string) (bool, error) {
	var task models.QCTask
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, models.QCTaskPending).
		Order("created_at, id").First(&task).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Model(&models.QCTask{}).
		Where("id = ? AND status = ?", task.ID, models.QCTaskPending).
		Update("status", models.QCTaskCompleted)
	return res.RowsAffected > 0, res.Error
}

func (r *QCRepository) CountTasks(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.QCTask{}).Count(&n).Error
	return n, err
}

func (r *QCRepository) CreateReport(ctx context.Context, report *models.QCReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *QCRepository) ListReports(ctx context.Context) ([]models.QCReport, error) {
	var reports []models.QCReport
	err := r.db.WithContext(ctx).Order("inspection_date desc, report_id desc").Find(&reports).Error
	return reports, err
}

// LatestReportByProduct returns the most recent report for productID.
func (r *QCRepository) LatestReportByProduct(ctx context.Context, productID string) (*models.QCReport, error) {
	var report models.QCReport
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at desc, report_id desc").First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *QCRepository) CountReports(ctx context.Context, decision models.FinalDecision) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.QCReport{})
	if decision != "" {
		q = q.Where("final_decision = ?", decision)
	}
	err := q.Count(&n).Error
	return n, err
}

type ReportDecisionRow struct {
	CreatedAt     time.Time
	FinalDecision models.FinalDecision
}

func (r *QCRepository) ReportsBetween(ctx context.Context, from, to time.Time) ([]ReportDecisionRow, error) {
	var rows []ReportDecisionRow
	err := r.db.WithContext(ctx).Model(&models.QCReport{}).
		Select("created_at, final_decision").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&rows).Error
	return rows, err
}

func (r *QCRepository) TasksCreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).Model(&models.QCTask{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("created_at", &out).Error
	return out, err
}
