package services

import (
	"context"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"
	"retrack-app/wms/realtime"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultNotificationLimit = 10

// NotificationService is the append-only notification sink. Rows are written
// inside the caller's transaction; pushing to live subscribers happens after
// commit through Publish.
type NotificationService struct {
	db    *gorm.DB
	hub   *realtime.Hub
	limit int
}

func NewNotificationService(db *gorm.DB, hub *realtime.Hub, limit int) *NotificationService {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &NotificationService{db: db, hub: hub, limit: limit}
}

// Create inserts a notification for role using tx.
func (s *NotificationService) Create(ctx context.Context, tx *gorm.DB, role models.NotificationRole, title, message string) (*models.Notification, error) {
	n := &models.Notification{
		UserRole:  role,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := repositories.NewNotificationRepository(tx).Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Publish pushes committed notifications to live subscribers. Best effort.
func (s *NotificationService) Publish(notes ...*models.Notification) {
	if s.hub == nil {
		return
	}
	for _, n := range notes {
		if n == nil {
			continue
		}
		delivered := s.hub.PublishJSON(string(n.UserRole), "notification", n)
		logger.L().Debug("notification pushed", zap.Uint("id", n.ID), zap.String("role", string(n.UserRole)), zap.Int("subscribers", delivered))
	}
}

// Notify creates and publishes a notification outside any other transaction.
func (s *NotificationService) Notify(ctx context.Context, role models.NotificationRole, title, message string) (*models.Notification, error) {
	n, err := s.Create(ctx, s.db, role, title, message)
	if err != nil {
		return nil, err
	}
	s.Publish(n)
	return n, nil
}

// List returns the newest notifications for role.
func (s *NotificationService) List(ctx context.Context, role models.NotificationRole, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = s.limit
	}
	return repositories.NewNotificationRepository(s.db).ListByRole(ctx, role, limit)
}

// MarkRead flips IsRead to true. Marking an already read notification is a
// no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id uint) (*models.Notification, error) {
	repo := repositories.NewNotificationRepository(s.db)
	n, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Notification not found")
	}
	if !n.IsRead {
		if err := repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		n.IsRead = true
	}
	return n, nil
}

func (s *NotificationService) Hub() *realtime.Hub {
	return s.hub
}
