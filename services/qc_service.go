package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QCService struct {
	db            *gorm.DB
	catalog       *ProductCatalog
	notifications *NotificationService
	now           func() time.Time
}

func NewQCService(db *gorm.DB, catalog *ProductCatalog, notifications *NotificationService) *QCService {
	return &QCService{db: db, catalog: catalog, notifications: notifications, now: time.Now}
}

type QCReportInput struct {
	ProductID      string     `json:"productId" validate:"required"`
	DefectType     string     `json:"defectType"`
	Severity       string     `json:"severity"`
	Notes          string     `json:"notes"`
	FinalDecision  string     `json:"finalDecision" validate:"required"`
	InspectorName  string     `json:"inspectorName"`
	InspectionDate *time.Time `json:"inspectionDate"`
}

// SubmitReport stores the inspector's decision, closes the oldest pending
// task for the product and tells the warehouse.
func (s *QCService) SubmitReport(ctx context.Context, in QCReportInput) (*models.QCReport, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, validation("productId is required")
	}
	decision, err := models.ParseFinalDecision(in.FinalDecision)
	if err != nil {
		return nil, validation("%s", err.Error())
	}

	now := s.now().UTC()
	report := &models.QCReport{
		ProductID:      productID,
		DefectType:     in.DefectType,
		Severity:       in.Severity,
		Notes:          in.Notes,
		FinalDecision:  decision,
		InspectorName:  in.InspectorName,
		InspectionDate: now,
		CreatedAt:      now,
	}
	if in.InspectionDate != nil {
		report.InspectionDate = in.InspectionDate.UTC()
	}

	var note *models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qc := repositories.NewQCRepository(tx)
		if err := qc.CreateReport(ctx, report); err != nil {
			return err
		}
		if _, err := qc.CompleteOldestPending(ctx, productID); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, EntityQC, report.ReportID, "Submitted",
			fmt.Sprintf("%s: %s", productID, decision)); err != nil {
			return err
		}
		var err error
		note, err = s.notifications.Create(ctx, tx, models.NotifyWarehouse, "QC Inspection Completed",
			fmt.Sprintf("QC inspection completed for Product %s", productID))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifications.Publish(note)
	logger.L().Info("qc report submitted", zap.String("product", productID), zap.String("decision", string(decision)))
	return report, nil
}

func (s *QCService) ListPendingTasks(ctx context.Context) ([]models.QCTask, error) {
	return repositories.NewQCRepository(s.db).ListTasks(ctx, models.QCTaskPending)
}

func (s *QCService) ListReports(ctx context.Context) ([]models.QCReport, error) {
	return repositories.NewQCRepository(s.db).ListReports(ctx)
}

// GetReportByProduct returns the latest report for the product.
func (s *QCService) GetReportByProduct(ctx context.Context, productID string) (*models.QCReport, error) {
	report, err := repositories.NewQCRepository(s.db).LatestReportByProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, lookup(err, "QC report not found")
	}
	return report, nil
}

func (s *QCService) GetProduct(productID string) (*models.Product, error) {
	p, ok := s.catalog.Get(productID)
	if !ok {
		return nil, notFound("Product %s not found", productID)
	}
	return &p, nil
}

// GetTaskProduct returns the catalog product behind a QC task, so inspectors
// cannot open products that were never forwarded.
func (s *QCService) GetTaskProduct(ctx context.Context, productID string) (*models.Product, error) {
	if _, err := repositories.NewQCRepository(s.db).FindTaskByProduct(ctx, strings.TrimSpace(productID)); err != nil {
		return nil, lookup(err, "No QC task for this product")
	}
	return s.GetProduct(productID)
}
