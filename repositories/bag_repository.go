package repositories

import (
	"context"
	"retrack-app/models"

	"gorm.io/gorm"
)

type BagRepository struct {
	db *gorm.DB
}

func NewBagRepository(db *gorm.DB) *BagRepository {
	return &BagRepository{db}
}

func (r *BagRepository) Create(ctx context.Context, bag *models.Bag) error {
	return r.db.WithContext(ctx).Create(bag).Error
}

func (r *BagRepository) FindByID(ctx context.Context, id uint) (*models.Bag, error) {
	var bag models.Bag
	if err := r.db.WithContext(ctx).First(&bag, id).Error; err != nil {
		return nil, err
	}
	return &bag, nil
}

func (r *BagRepository) FindByCode(ctx context.Context, code string) (*models.Bag, error) {
	var bag models.Bag
	if err := r.db.WithContext(ctx).Where("bag_code = ?", code).First(&bag).Error; err != nil {
		return nil, err
	}
	return &bag, nil
}

// FindDetail loads the bag with its items, their returns and products.
func (r *BagRepository) FindDetail(ctx context.Context, id uint) (*models.Bag, error) {
	var bag models.Bag
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("bag_items.id") }).
		Preload("Items.Return").
		Preload("Items.Return.Product").
		First(&bag, id).Error
	if err != nil {
		return nil, err
	}
	return &bag, nil
}

func (r *BagRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Bag, error) {
	var bags []models.Bag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&bags).Error
	return bags, err
}

func (r *BagRepository) ListAll(ctx context.Context) ([]models.Bag, error) {
	var bags []models.Bag
	err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&bags).Error
	return bags, err
}

func (r *BagRepository) ListByAgent(ctx context.Context, agentID uint) ([]models.Bag, error) {
	var bags []models.Bag
	err := r.db.WithContext(ctx).Where("pickup_agent_id = ?", agentID).
		Order("created_at desc, id desc").Find(&bags).Error
	return bags, err
}

func (r *BagRepository) ListByWarehouse(ctx context.Context, warehouseID uint) ([]models.Bag, error) {
	var bags []models.Bag
	err := r.db.WithContext(ctx).Where("warehouse_id = ?", warehouseID).
		Order("created_at desc, id desc").Find(&bags).Error
	return bags, err
}

// Advance moves the bag from one status to the next with a conditional
// update. It returns false when another writer changed the status first.
func (r *BagRepository) Advance(ctx context.Context, id uint, from, to models.BagStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).Model(&models.Bag{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *BagRepository) SetSealIntegrity(ctx context.Context, id uint, v models.SealIntegrity) error {
	return r.db.WithContext(ctx).Model(&models.Bag{}).Where("id = ?", id).Update("seal_integrity", v).Error
}

func (r *BagRepository) CountItems(ctx context.Context, bagID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BagItem{}).Where("bag_id = ?", bagID).Count(&n).Error
	return n, err
}
