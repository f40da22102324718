package repositories

import (
	"context"
	"retrack-app/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ReturnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) *ReturnRepository {
	return &ReturnRepository{db}
}

func (r *ReturnRepository) FindByCode(ctx context.Context, code string) (*models.Return, error) {
	var ret models.Return
	if err := r.db.WithContext(ctx).Preload("Product").Where("return_code = ?", code).First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *ReturnRepository) FindByID(ctx context.Context, id uint) (*models.Return, error) {
	var ret models.Return
	if err := r.db.WithContext(ctx).Preload("Product").First(&ret, id).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *ReturnRepository) Create(ctx context.Context, ret *models.Return) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *ReturnRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Return{}).Where("return_code = ?", code).Count(&n).Error
	return n > 0, err
}

// SetStatus moves a return from one of the allowed statuses to next and
// reports whether a row changed. Callers use it as a compare-and-set.
func (r *ReturnRepository) SetStatus(ctx context.Context, id uint, from []models.PickupStatus, next models.PickupStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"pickup_status": next}
	for k, v := range extra {
		updates[k] = v
	}
	q := r.db.WithContext(ctx).Model(&models.Return{}).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("pickup_status IN ?", from)
	}
	res := q.Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *ReturnRepository) MarkCompleted(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Return{}).Where("id = ?", id).
		Updates(map[string]interface{}{"qc_result": "Completed", "completed_at": at}).Error
}

func (r *ReturnRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Return{}, id).Error
}

type PickupRow struct {
	ReturnID      uint                `json:"returnId"`
	ReturnCode    string              `json:"returnCode"`
	CustomerName  string              `json:"customerName"`
	CustomerPhone string              `json:"customerPhone"`
	Location      string              `json:"location"`
	PickupStatus  models.PickupStatus `json:"pickupStatus"`
	BagCode       *string             `json:"bagCode"`
}

// ListPickups returns the returns located in city, newest first, together with
// the bag they were put in (if any).
func (r *ReturnRepository) ListPickups(ctx context.Context, city string, offset, limit int) ([]PickupRow, int64, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(city)) + "%"

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Return{}).
		Where("LOWER(location) LIKE ?", pattern).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sql := `select r.id as return_id, r.return_code, r.customer_name, r.customer_phone,
	r.location, r.pickup_status, b.bag_code
	from returns r
	left join bag_items bi on bi.return_id = r.id
	left join bags b on b.id = bi.bag_id
	where LOWER(r.location) LIKE ?
	order by r.created_at desc, r.id desc
	limit ? offset ?`

	var rows []PickupRow
	if err := r.db.WithContext(ctx).Raw(sql, pattern, limit, offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type StatusCount struct {
	PickupStatus models.PickupStatus
	Total        int64
}

// CountByStatus groups returns in city (all returns when city is empty) by
// pickup status, optionally restricted to a creation window.
func (r *ReturnRepository) CountByStatus(ctx context.Context, city string, from, to *time.Time) ([]StatusCount, error) {
	q := r.db.WithContext(ctx).Model(&models.Return{}).Select("pickup_status, count(*) as total")
	if city != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(city))+"%")
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}
	var rows []StatusCount
	err := q.Group("pickup_status").Scan(&rows).Error
	return rows, err
}

// ActiveInWindow returns the returns created or picked up in [from, to) that
// have not failed, optionally limited to one agent.
func (r *ReturnRepository) ActiveInWindow(ctx context.Context, from, to time.Time, agentID *uint) ([]models.Return, error) {
	q := r.db.WithContext(ctx).
		Where("(created_at >= ? AND created_at < ?) OR (pickup_time >= ? AND pickup_time < ?)", from, to, from, to).
		Where("pickup_status <> ?", models.PickupFailed)
	if agentID != nil {
		q = q.Where("pickup_agent_id = ?", *agentID)
	}
	var out []models.Return
	err := q.Find(&out).Error
	return out, err
}

func (r *ReturnRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Return{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

// CreatedBetween returns creation timestamps in [from, to), used for trend
// bucketing in Go so the query stays portable across dialects.
func (r *ReturnRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).Model(&models.Return{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("created_at", &out).Error
	return out, err
}
