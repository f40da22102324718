package repositories

import (
	"context"
	"retrack-app/models"
	"retrack-app/types"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) List(ctx context.Context, limit int, userID *uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	q := r.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit)
	if userID != nil {
		q = q.Where("performed_by_user_id = ?", *userID)
	}
	err := q.Find(&logs).Error
	return logs, err
}

func (r *AuditRepository) ListForEntity(ctx context.Context, entity, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at, id").Find(&logs).Error
	return logs, err
}

func (r *AuditRepository) FindByID(ctx context.Context, id types.SnowflakeID) (*models.AuditLog, error) {
	var entry models.AuditLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
