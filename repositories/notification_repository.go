package repositories

import (
	"context"
	"retrack-app/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByRole(ctx context.Context, role models.NotificationRole, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).Where("user_role = ?", role).
		Order("created_at desc, id desc").Limit(limit).Find(&out).Error
	return out, err
}

// MarkRead only ever sets is_read to true.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).Update("is_read", true).Error
}
