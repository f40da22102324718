package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"retrack-app/database"
	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const bagCodeAttempts = 5

// BagCode formats t as BAG-yyMMddHHmmssfff in UTC.
func BagCode(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("BAG-%s%03d", t.Format("060102150405"), t.Nanosecond()/int(time.Millisecond))
}

type BagService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewBagService(db *gorm.DB, notifications *NotificationService) *BagService {
	return &BagService{db: db, notifications: notifications, now: time.Now}
}

// CreateBag opens a new bag for a pickup agent. The bag code comes from the
// creation time; on a collision the time is moved forward by a millisecond.
func (s *BagService) CreateBag(ctx context.Context, agentID uint) (*models.Bag, error) {
	agent, err := repositories.NewUserRepository(s.db).GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidState("Invalid pickup agent")
		}
		return nil, err
	}
	if agent.Role != models.RolePickupAgent {
		return nil, invalidState("Invalid pickup agent")
	}

	at := s.now()
	for attempt := 0; attempt < bagCodeAttempts; attempt++ {
		bag := &models.Bag{
			BagCode:       BagCode(at),
			PickupAgentID: agent.ID,
			WarehouseID:   agent.WarehouseID,
			Status:        models.BagOpen,
			SealIntegrity: models.SealIntact,
			CreatedAt:     at.UTC(),
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repositories.NewBagRepository(tx).Create(ctx, bag); err != nil {
				return err
			}
			return recordAudit(ctx, tx, EntityBag, bag.BagCode, "Created", fmt.Sprintf("opened by agent %d", agent.ID))
		})
		if err == nil {
			logger.L().Info("bag created", zap.String("bag", bag.BagCode), zap.Uint("agent", agent.ID))
			return bag, nil
		}
		if !database.IsDuplicateKey(err) {
			return nil, err
		}
		at = at.Add(time.Millisecond)
	}
	return nil, conflict("Could not allocate a unique bag code")
}

// AssignReturn puts an in-progress return from the agent's region into an
// open bag.
func (s *BagService) AssignReturn(ctx context.Context, bagID uint, returnCode string) (*models.BagItem, error) {
	var item *models.BagItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bag, err := repositories.NewBagRepository(tx).FindByID(ctx, bagID)
		if err != nil {
			return lookup(err, "Bag not found")
		}
		if bag.Status != models.BagOpen {
			return invalidState("Bag is sealed. Cannot assign returns.")
		}

		agent, err := repositories.NewUserRepository(tx).GetByID(ctx, bag.PickupAgentID)
		if err != nil {
			return lookup(err, "Invalid pickup agent")
		}
		if strings.TrimSpace(agent.City) == "" {
			return invalidState("Agent city not configured")
		}

		ret, err := repositories.NewReturnRepository(tx).FindByCode(ctx, strings.TrimSpace(returnCode))
		if err != nil {
			return lookup(err, "Return not found in your region")
		}
		if !RegionMatch(agent.City, ret.Location) {
			return notFound("Return not found in your region")
		}

		item, _, err = createOrGetBagItem(ctx, tx, bag, ret, agentAssignPolicy)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("return bagged", zap.String("return", returnCode), zap.Uint("bag", bagID))
	return item, nil
}

// SealBag closes an open bag. Sealing an already sealed bag succeeds without
// changes; the second return value tells whether this call sealed it.
func (s *BagService) SealBag(ctx context.Context, bagCode string) (*models.Bag, bool, error) {
	var out *models.Bag
	sealed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bags := repositories.NewBagRepository(tx)
		bag, err := bags.FindByCode(ctx, strings.TrimSpace(bagCode))
		if err != nil {
			return lookup(err, "Bag not found")
		}
		out = bag

		switch bag.Status {
		case models.BagSealed:
			return nil
		case models.BagOpen:
		default:
			return invalidState("Bag %s is already %s", bag.BagCode, bag.Status)
		}

		n, err := bags.CountItems(ctx, bag.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return invalidState("Bag is empty")
		}

		now := s.now().UTC()
		ok, err := bags.Advance(ctx, bag.ID, models.BagOpen, models.BagSealed, map[string]interface{}{"sealed_at": now})
		if err != nil {
			return err
		}
		if !ok {
			current, err := bags.FindByID(ctx, bag.ID)
			if err != nil {
				return err
			}
			out = current
			if current.Status == models.BagSealed {
				return nil
			}
			return invalidState("Bag %s is already %s", bag.BagCode, current.Status)
		}
		bag.Status = models.BagSealed
		bag.SealedAt = &now
		sealed = true
		return recordAudit(ctx, tx, EntityBag, bag.BagCode, "Sealed", fmt.Sprintf("%d item(s)", n))
	})
	if err != nil {
		return nil, false, err
	}
	if sealed {
		logger.L().Info("bag sealed", zap.String("bag", out.BagCode))
	}
	return out, sealed, nil
}

type DeliveryResult struct {
	Delivered []string `json:"delivered"`
	Skipped   []string `json:"skipped"`
}

// DeliverToWarehouse hands sealed bags over to the warehouse. Either every
// listed bag is accepted or none is. Bags already received are skipped.
func (s *BagService) DeliverToWarehouse(ctx context.Context, bagIDs []uint) (*DeliveryResult, error) {
	if len(bagIDs) == 0 {
		return nil, validation("No bags selected for delivery")
	}
	ids := slices.Clone(bagIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	result := &DeliveryResult{Delivered: []string{}, Skipped: []string{}}
	var note *models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewBagRepository(tx)
		bags, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(bags) == 0 {
			return notFound("No matching bags found")
		}
		if len(bags) != len(ids) {
			found := make([]uint, 0, len(bags))
			for _, b := range bags {
				found = append(found, b.ID)
			}
			var missing []string
			for _, id := range ids {
				if !slices.Contains(found, id) {
					missing = append(missing, fmt.Sprint(id))
				}
			}
			return notFound("Bag(s) not found: %s", strings.Join(missing, ", "))
		}

		for _, b := range bags {
			if b.Status == models.BagOpen {
				return invalidState("Bag %s is not sealed", b.BagCode)
			}
		}

		for _, b := range bags {
			if b.Status.Reached(models.BagInWarehouse) {
				result.Skipped = append(result.Skipped, b.BagCode)
				continue
			}
			ok, err := repo.Advance(ctx, b.ID, models.BagSealed, models.BagInWarehouse, nil)
			if err != nil {
				return err
			}
			if !ok {
				return invalidState("Bag %s changed state, retry the delivery", b.BagCode)
			}
			if err := recordAudit(ctx, tx, EntityBag, b.BagCode, "DeliveredToWarehouse", ""); err != nil {
				return err
			}
			result.Delivered = append(result.Delivered, b.BagCode)
		}

		if len(result.Delivered) == 0 {
			return nil
		}
		note, err = s.notifications.Create(ctx, tx, models.NotifyWarehouse,
			"Bags Delivered to Warehouse",
			fmt.Sprintf("Agent delivered %d bag(s) to the warehouse", len(result.Delivered)))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifications.Publish(note)
	logger.L().Info("bags delivered", zap.Strings("delivered", result.Delivered), zap.Strings("skipped", result.Skipped))
	return result, nil
}

// EmptyBag removes every item from the bag. The bag keeps its status.
func (s *BagService) EmptyBag(ctx context.Context, bagID uint) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bag, err := repositories.NewBagRepository(tx).FindByID(ctx, bagID)
		if err != nil {
			return lookup(err, "Bag not found")
		}
		if bag.Status == models.BagFinished {
			return invalidState("Bag is finished")
		}
		removed, err = repositories.NewBagItemRepository(tx).DeleteByBag(ctx, bag.ID)
		if err != nil {
			return err
		}
		return recordAudit(ctx, tx, EntityBag, bag.BagCode, "Emptied", fmt.Sprintf("%d item(s) removed", removed))
	})
	return removed, err
}

func (s *BagService) Get(ctx context.Context, bagID uint) (*models.Bag, error) {
	bag, err := repositories.NewBagRepository(s.db).FindDetail(ctx, bagID)
	if err != nil {
		return nil, lookup(err, "Bag not found")
	}
	return bag, nil
}

func (s *BagService) ListAll(ctx context.Context) ([]models.Bag, error) {
	return repositories.NewBagRepository(s.db).ListAll(ctx)
}

func (s *BagService) ListForAgent(ctx context.Context, agentID uint) ([]models.Bag, error) {
	return repositories.NewBagRepository(s.db).ListByAgent(ctx, agentID)
}

// ListForWarehouseStaff lists the bags routed to the user's warehouse.
func (s *BagService) ListForWarehouseStaff(ctx context.Context, userID uint) ([]models.Bag, error) {
	user, err := repositories.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	if user.WarehouseID == nil {
		return nil, invalidState("User is not assigned to a warehouse")
	}
	return repositories.NewBagRepository(s.db).ListByWarehouse(ctx, *user.WarehouseID)
}
