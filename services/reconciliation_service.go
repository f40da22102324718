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

// ReconciliationService compares what arrived in a bag with what the agent
// packed. Every operation needs the bag to be InWarehouse.
type ReconciliationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReconciliationService(db *gorm.DB) *ReconciliationService {
	return &ReconciliationService{db: db, now: time.Now}
}

func requireInWarehouse(bag *models.Bag) error {
	switch bag.Status {
	case models.BagInWarehouse:
		return nil
	case models.BagFinished:
		return invalidState("Bag is finished")
	}
	return invalidState("Bag %s is not in the warehouse", bag.BagCode)
}

func (s *ReconciliationService) loadItem(ctx context.Context, tx *gorm.DB, itemID uint) (*models.BagItem, *models.Bag, error) {
	item, err := repositories.NewBagItemRepository(tx).FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, lookup(err, "Bag item not found")
	}
	bag, err := repositories.NewBagRepository(tx).FindByID(ctx, item.BagID)
	if err != nil {
		return nil, nil, lookup(err, "Bag not found")
	}
	if err := requireInWarehouse(bag); err != nil {
		return nil, nil, err
	}
	return item, bag, nil
}

// ScanItem records whether the item was expected. The item status follows:
// Yes proceeds, anything else is reported.
func (s *ReconciliationService) ScanItem(ctx context.Context, itemID uint, value string) (*models.BagItem, error) {
	expected, err := models.ParseExpected(value)
	if err != nil {
		return nil, validation("%s", err.Error())
	}

	var out *models.BagItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, _, err := s.loadItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		status := expected.ItemStatus()
		if err := repositories.NewBagItemRepository(tx).SetScan(ctx, item.ID, expected, status); err != nil {
			return err
		}
		item.Expected = &expected
		item.Status = status
		out = item
		return recordAudit(ctx, tx, EntityBagItem, item.ID, "Scanned", string(expected))
	})
	return out, err
}

// SetItemStatus overrides the item status. Proceed needs a Yes scan.
func (s *ReconciliationService) SetItemStatus(ctx context.Context, itemID uint, value string) (*models.BagItem, error) {
	status, err := models.ParseItemStatus(value)
	if err != nil {
		return nil, validation("%s", err.Error())
	}

	var out *models.BagItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, _, err := s.loadItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if status == models.ItemProceed && (item.Expected == nil || *item.Expected != models.ExpectedYes) {
			return invalidState("Only items scanned as expected can proceed")
		}
		if err := repositories.NewBagItemRepository(tx).SetStatus(ctx, item.ID, status); err != nil {
			return err
		}
		item.Status = status
		out = item
		return recordAudit(ctx, tx, EntityBagItem, item.ID, "StatusChanged", string(status))
	})
	return out, err
}

// SearchReturnInBag finds the item for returnCode in the bag, creating it when
// the warehouse finds a return the agent did not register.
func (s *ReconciliationService) SearchReturnInBag(ctx context.Context, bagID uint, returnCode string) (*models.BagItem, bool, error) {
	var item *models.BagItem
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bag, err := repositories.NewBagRepository(tx).FindByID(ctx, bagID)
		if err != nil {
			return lookup(err, "Bag not found")
		}
		if err := requireInWarehouse(bag); err != nil {
			return err
		}
		ret, err := repositories.NewReturnRepository(tx).FindByCode(ctx, strings.TrimSpace(returnCode))
		if err != nil {
			return lookup(err, "Invalid return ID")
		}
		item, created, err = createOrGetBagItem(ctx, tx, bag, ret, warehouseSearchPolicy)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

func (s *ReconciliationService) SetSealIntegrity(ctx context.Context, bagID uint, value string) (*models.Bag, error) {
	integrity, err := models.ParseSealIntegrity(value)
	if err != nil {
		return nil, validation("%s", err.Error())
	}

	var out *models.Bag
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bags := repositories.NewBagRepository(tx)
		bag, err := bags.FindByID(ctx, bagID)
		if err != nil {
			return lookup(err, "Bag not found")
		}
		if err := requireInWarehouse(bag); err != nil {
			return err
		}
		if err := bags.SetSealIntegrity(ctx, bag.ID, integrity); err != nil {
			return err
		}
		bag.SealIntegrity = integrity
		out = bag
		return recordAudit(ctx, tx, EntityBag, bag.BagCode, "SealIntegrity", string(integrity))
	})
	return out, err
}

type FinishResult struct {
	Bag           *models.Bag `json:"bag"`
	MarkedMissing int64       `json:"markedMissing"`
}

// FinishBag closes reconciliation: unscanned items become Missing and the bag
// is Finished. Finished bags accept no further changes.
func (s *ReconciliationService) FinishBag(ctx context.Context, bagID uint) (*FinishResult, error) {
	var result *FinishResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bags := repositories.NewBagRepository(tx)
		bag, err := bags.FindByID(ctx, bagID)
		if err != nil {
			return lookup(err, "Bag not found")
		}
		if err := requireInWarehouse(bag); err != nil {
			return err
		}

		filled, err := repositories.NewBagItemRepository(tx).FillMissing(ctx, bag.ID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		ok, err := bags.Advance(ctx, bag.ID, models.BagInWarehouse, models.BagFinished, map[string]interface{}{
			"seal_integrity": models.SealIntact,
			"sealed_at":      now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return invalidState("Bag is finished")
		}
		bag.Status = models.BagFinished
		bag.SealIntegrity = models.SealIntact
		bag.SealedAt = &now
		result = &FinishResult{Bag: bag, MarkedMissing: filled}
		return recordAudit(ctx, tx, EntityBag, bag.BagCode, "Finished", fmt.Sprintf("%d item(s) marked missing", filled))
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("bag finished", zap.String("bag", result.Bag.BagCode), zap.Int64("missing", result.MarkedMissing))
	return result, nil
}

func (s *ReconciliationService) ListItems(ctx context.Context, bagID uint) ([]models.BagItem, error) {
	if _, err := repositories.NewBagRepository(s.db).FindByID(ctx, bagID); err != nil {
		return nil, lookup(err, "Bag not found")
	}
	return repositories.NewBagItemRepository(s.db).ListByBag(ctx, bagID)
}
