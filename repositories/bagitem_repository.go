package repositories

import (
	"context"
	"retrack-app/models"

	"gorm.io/gorm"
)

type BagItemRepository struct {
	db *gorm.DB
}

func NewBagItemRepository(db *gorm.DB) *BagItemRepository {
	return &BagItemRepository{db}
}

func (r *BagItemRepository) Create(ctx context.Context, item *models.BagItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *BagItemRepository) FindByID(ctx context.Context, id uint) (*models.BagItem, error) {
	var item models.BagItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *BagItemRepository) FindByReturnID(ctx context.Context, returnID uint) (*models.BagItem, error) {
	var item models.BagItem
	if err := r.db.WithContext(ctx).Where("return_id = ?", returnID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *BagItemRepository) ListByBag(ctx context.Context, bagID uint) ([]models.BagItem, error) {
	var items []models.BagItem
	err := r.db.WithContext(ctx).Preload("Return").Preload("Return.Product").
		Where("bag_id = ?", bagID).Order("id").Find(&items).Error
	return items, err
}

func (r *BagItemRepository) SetScan(ctx context.Context, id uint, expected models.Expected, status models.ItemStatus) error {
	return r.db.WithContext(ctx).Model(&models.BagItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{"expected": expected, "status": status}).Error
}

func (r *BagItemRepository) SetStatus(ctx context.Context, id uint, status models.ItemStatus) error {
	return r.db.WithContext(ctx).Model(&models.BagItem{}).Where("id = ?", id).Update("status", status).Error
}

// FillMissing marks every unscanned item of the bag as Missing/Report and
// returns how many rows were changed.
func (r *BagItemRepository) FillMissing(ctx context.Context, bagID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.BagItem{}).
		Where("bag_id = ? AND expected IS NULL", bagID).
		Updates(map[string]interface{}{"expected": models.ExpectedMissing, "status": models.ItemReport})
	return res.RowsAffected, res.Error
}

func (r *BagItemRepository) DeleteByBag(ctx context.Context, bagID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("bag_id = ?", bagID).Delete(&models.BagItem{})
	return res.RowsAffected, res.Error
}

func (r *BagItemRepository) DeleteByReturn(ctx context.Context, returnID uint) error {
	return r.db.WithContext(ctx).Where("return_id = ?", returnID).Delete(&models.BagItem{}).Error
}

type ForwardCandidate struct {
	BagItemID   uint
	ReturnID    uint
	ProductID   string
	ProductName string
	ProductType string
}

// ListForwardable joins the Proceed items of a bag with their return and
// product. Items whose return already has a QC task are left out.
func (r *BagItemRepository) ListForwardable(ctx context.Context, bagID uint) ([]ForwardCandidate, error) {
	sql := `select bi.id as bag_item_id, r.id as return_id, p.product_id, p.name as product_name,
	p.type as product_type
	from bag_items bi
	inner join returns r on r.id = bi.return_id
	inner join products p on p.id = r.product_id
	where bi.bag_id = ? and bi.status = ?
	and not exists (select 1 from qc_tasks t where t.return_id = r.id)
	order by bi.id`

	var rows []ForwardCandidate
	if err := r.db.WithContext(ctx).Raw(sql, bagID, models.ItemProceed).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type RiskFeatureRow struct {
	Expected      *string
	Status        string
	SealIntegrity string
	BagStatus     string
	WarehouseID   *uint
}

// RiskFeatures returns one row per bag item with the bag attributes needed by
// the risk scorer.
func (r *BagItemRepository) RiskFeatures(ctx context.Context) ([]RiskFeatureRow, error) {
	sql := `select bi.expected, bi.status, b.seal_integrity, b.status as bag_status, b.warehouse_id
	from bag_items bi
	inner join bags b on b.id = bi.bag_id`

	var rows []RiskFeatureRow
	err := r.db.WithContext(ctx).Raw(sql).Scan(&rows).Error
	return rows, err
}
