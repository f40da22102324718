package services

import (
	"context"
	"fmt"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ForwardingService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewForwardingService(db *gorm.DB, notifications *NotificationService) *ForwardingService {
	return &ForwardingService{db: db, notifications: notifications, now: time.Now}
}

// ForwardToQC creates one QC task per Proceed item of the bag and notifies
// QC. Items already forwarded are not forwarded again.
func (s *ForwardingService) ForwardToQC(ctx context.Context, bagID uint) (int, error) {
	var created int
	var note *models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bag, err := repositories.NewBagRepository(tx).FindByID(ctx, bagID)
		if err != nil {
			return lookup(err, "Bag not found")
		}
		if !bag.Status.Reached(models.BagInWarehouse) {
			return invalidState("Bag %s has not reached the warehouse", bag.BagCode)
		}

		candidates, err := repositories.NewBagItemRepository(tx).ListForwardable(ctx, bag.ID)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return invalidState("No eligible items to forward to QC")
		}

		now := s.now().UTC()
		tasks := make([]models.QCTask, 0, len(candidates))
		for _, c := range candidates {
			tasks = append(tasks, models.QCTask{
				ReturnID:    c.ReturnID,
				ProductID:   c.ProductID,
				ProductName: c.ProductName,
				ProductType: c.ProductType,
				Status:      models.QCTaskPending,
				CreatedAt:   now,
			})
		}
		if err := repositories.NewQCRepository(tx).CreateTasks(ctx, tasks); err != nil {
			return err
		}
		created = len(tasks)

		if err := recordAudit(ctx, tx, EntityBag, bag.BagCode, "ForwardedToQC", fmt.Sprintf("%d item(s)", created)); err != nil {
			return err
		}
		note, err = s.notifications.Create(ctx, tx, models.NotifyQC, "Items Forwarded to QC",
			fmt.Sprintf("Bag %d has %d item(s) pending QC inspection", bag.ID, created))
		return err
	})
	if err != nil {
		return 0, err
	}
	s.notifications.Publish(note)
	logger.L().Info("forwarded to qc", zap.Uint("bag", bagID), zap.Int("tasks", created))
	return created, nil
}
