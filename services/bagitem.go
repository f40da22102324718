package services

import (
	"context"
	"errors"
	"fmt"

	"retrack-app/models"
	"retrack-app/repositories"

	"gorm.io/gorm"
)

// bagItemPolicy controls the two ways a return enters a bag: the agent
// assigning it in the field, and the warehouse finding it while unpacking.
type bagItemPolicy struct {
	requireInProgress bool
	reuseSameBag      bool
}

var (
	agentAssignPolicy     = bagItemPolicy{requireInProgress: true}
	warehouseSearchPolicy = bagItemPolicy{reuseSameBag: true}
)

// createOrGetBagItem is the single place where BagItems are created. It must
// run inside the caller's transaction.
func createOrGetBagItem(ctx context.Context, tx *gorm.DB, bag *models.Bag, ret *models.Return, policy bagItemPolicy) (*models.BagItem, bool, error) {
	items := repositories.NewBagItemRepository(tx)

	existing, err := items.FindByReturnID(ctx, ret.ID)
	switch {
	case err == nil:
		if policy.reuseSameBag && existing.BagID == bag.ID {
			return existing, false, nil
		}
		return nil, false, conflict("Return %s is already assigned to a bag", ret.ReturnCode)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	status := ret.PickupStatus.Normalized()
	if policy.requireInProgress && status != models.PickupInProgress {
		return nil, false, invalidState("Invalid return state")
	}

	item := &models.BagItem{
		BagID:    bag.ID,
		ReturnID: ret.ID,
		Status:   models.ItemReport,
	}
	if ret.Product != nil {
		item.ProductID = ret.Product.ProductID
		item.ProductName = ret.Product.Name
		item.ProductType = ret.Product.Type
	}
	if err := items.Create(ctx, item); err != nil {
		return nil, false, storeErr(err, fmt.Sprintf("Return %s is already assigned to a bag", ret.ReturnCode))
	}

	from := []models.PickupStatus{models.PickupInProgress}
	if !policy.requireInProgress {
		from = append(from, models.PickupPending)
	}
	moved, err := repositories.NewReturnRepository(tx).SetStatus(ctx, ret.ID, from, models.PickupBagged, nil)
	if err != nil {
		return nil, false, err
	}
	if policy.requireInProgress && !moved {
		// status changed between the read and the update
		return nil, false, invalidState("Invalid return state")
	}
	if moved {
		ret.PickupStatus = models.PickupBagged
	}

	if err := recordAudit(ctx, tx, EntityBagItem, item.ID, "Created",
		fmt.Sprintf("return %s added to bag %s", ret.ReturnCode, bag.BagCode)); err != nil {
		return nil, false, err
	}
	return item, true, nil
}
