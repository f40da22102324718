package services

import (
	"context"
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBagCodeFormat(t *testing.T) {
	at := time.Date(2025, 3, 7, 14, 5, 9, 42*int(time.Millisecond), time.UTC)
	assert.Equal(t, "BAG-250307140509042", BagCode(at))

	local := at.In(time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, BagCode(at), BagCode(local))
}

func TestCreateBag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f.bags.now = fixedClock(at)

	first, err := f.bags.CreateBag(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BagOpen, first.Status)
	assert.Equal(t, models.SealIntact, first.SealIntegrity)
	assert.Equal(t, "BAG-250102030405000", first.BagCode)

	// same clock, so the second code collides and moves forward
	second, err := f.bags.CreateBag(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "BAG-250102030405001", second.BagCode)

	assert.EqualValues(t, 2, f.count(t, &models.AuditLog{}, "entity = ? AND action = ?", EntityBag, "Created"))
}

func TestCreateBagRejectsNonAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := testutil.CreateUser(t, f.db, "wh", models.RoleWarehouseStaff, nil)

	_, err := f.bags.CreateBag(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.bags.CreateBag(ctx, 9999)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAssignReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	product := testutil.CreateProduct(t, f.db, "PROD-001", "Phone", "Electronics")
	ret := testutil.CreateReturn(t, f.db, "RET1", "Adyar, Chennai", models.PickupInProgress, product)
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagOpen)

	item, err := f.bags.AssignReturn(ctx, bag.ID, "RET1")
	require.NoError(t, err)
	assert.Equal(t, bag.ID, item.BagID)
	assert.Equal(t, models.ItemReport, item.Status)
	assert.Nil(t, item.Expected)
	assert.Equal(t, "Phone", item.ProductName)
	assert.Equal(t, "PROD-001", item.ProductID)
	assert.Equal(t, models.PickupBagged, f.reloadReturn(t, ret.ID).PickupStatus)

	// a second bag cannot take the same return
	other := testutil.CreateBag(t, f.db, "BAG-2", agent.ID, models.BagOpen)
	_, err = f.bags.AssignReturn(ctx, other.ID, "RET1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 1, f.count(t, &models.BagItem{}, "return_id = ?", ret.ID))
}

// A competing assignment that commits between the lookup and the insert is
// caught by the unique index on bag_items.return_id.
func TestAssignReturnUniqueIndexConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	ret := testutil.CreateReturn(t, f.db, "RET1", "Adyar, Chennai", models.PickupInProgress, nil)
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagOpen)
	other := testutil.CreateBag(t, f.db, "BAG-2", agent.ID, models.BagOpen)

	var competing error
	fired := false
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:competing_bag_item", func(tx *gorm.DB) {
		if fired {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.BagItem); !ok {
			return
		}
		fired = true
		competing = tx.Session(&gorm.Session{NewDB: true}).Create(&models.BagItem{
			BagID:    other.ID,
			ReturnID: ret.ID,
			Status:   models.ItemReport,
		}).Error
	}))

	_, err := f.bags.AssignReturn(ctx, bag.ID, "RET1")
	require.True(t, fired)
	require.NoError(t, competing)
	assert.ErrorIs(t, err, ErrConflict)

	// the whole assignment rolled back
	assert.Equal(t, models.PickupInProgress, f.reloadReturn(t, ret.ID).PickupStatus)
	assert.EqualValues(t, 0, f.count(t, &models.AuditLog{}, "entity = ?", EntityBagItem))
}

func TestAssignReturnRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	open := testutil.CreateBag(t, f.db, "BAG-OPEN", agent.ID, models.BagOpen)
	sealed := testutil.CreateBag(t, f.db, "BAG-SEALED", agent.ID, models.BagSealed)
	testutil.CreateReturn(t, f.db, "RET-PENDING", "Adyar, Chennai", models.PickupPending, nil)
	testutil.CreateReturn(t, f.db, "RET-MUMBAI", "Andheri, Mumbai", models.PickupInProgress, nil)
	testutil.CreateReturn(t, f.db, "RET-OK", "Adyar, Chennai", models.PickupInProgress, nil)

	_, err := f.bags.AssignReturn(ctx, open.ID, "RET-PENDING")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.bags.AssignReturn(ctx, open.ID, "RET-MUMBAI")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.bags.AssignReturn(ctx, open.ID, "RET-NONE")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.bags.AssignReturn(ctx, sealed.ID, "RET-OK")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.bags.AssignReturn(ctx, 9999, "RET-OK")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.EqualValues(t, 0, f.count(t, &models.BagItem{}, ""))
}

func TestAssignReturnNeedsAgentCity(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "nocity", "")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagOpen)
	testutil.CreateReturn(t, f.db, "RET1", "Adyar, Chennai", models.PickupInProgress, nil)

	_, err := f.bags.AssignReturn(context.Background(), bag.ID, "RET1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSealBag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagOpen)

	_, _, err := f.bags.SealBag(ctx, "BAG-1")
	assert.ErrorIs(t, err, ErrInvalidState, "empty bag")

	ret := testutil.CreateReturn(t, f.db, "RET1", "Adyar, Chennai", models.PickupBagged, nil)
	testutil.CreateBagItem(t, f.db, bag, ret, nil, models.ItemReport)

	sealedAt := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	f.bags.now = fixedClock(sealedAt)
	out, sealed, err := f.bags.SealBag(ctx, "BAG-1")
	require.NoError(t, err)
	assert.True(t, sealed)
	assert.Equal(t, models.BagSealed, out.Status)

	stored := f.reloadBag(t, bag.ID)
	assert.Equal(t, models.BagSealed, stored.Status)
	require.NotNil(t, stored.SealedAt)
	assert.True(t, stored.SealedAt.Equal(sealedAt))

	// sealing again is a no-op
	out, sealed, err = f.bags.SealBag(ctx, "BAG-1")
	require.NoError(t, err)
	assert.False(t, sealed)
	assert.Equal(t, models.BagSealed, out.Status)
	assert.EqualValues(t, 1, f.count(t, &models.AuditLog{}, "action = ?", "Sealed"))

	_, _, err = f.bags.SealBag(ctx, "BAG-NONE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSealBagPastSealed(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	testutil.CreateBag(t, f.db, "BAG-WH", agent.ID, models.BagInWarehouse)

	_, _, err := f.bags.SealBag(context.Background(), "BAG-WH")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeliverToWarehouse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	a := testutil.CreateBag(t, f.db, "BAG-A", agent.ID, models.BagSealed)
	b := testutil.CreateBag(t, f.db, "BAG-B", agent.ID, models.BagSealed)
	done := testutil.CreateBag(t, f.db, "BAG-DONE", agent.ID, models.BagInWarehouse)

	sub := f.hub.Subscribe(string(models.NotifyWarehouse))
	defer f.hub.Unsubscribe(sub.ID)

	res, err := f.bags.DeliverToWarehouse(ctx, []uint{a.ID, b.ID, done.ID, a.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BAG-A", "BAG-B"}, res.Delivered)
	assert.Equal(t, []string{"BAG-DONE"}, res.Skipped)
	assert.Equal(t, models.BagInWarehouse, f.reloadBag(t, a.ID).Status)
	assert.Equal(t, models.BagInWarehouse, f.reloadBag(t, b.ID).Status)

	assert.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_role = ?", models.NotifyWarehouse))
	select {
	case ev := <-sub.Events:
		assert.Equal(t, "notification", ev.Type)
		assert.Contains(t, ev.Data, "2 bag(s)")
	case <-time.After(time.Second):
		t.Fatal("expected a pushed notification")
	}

	// everything already delivered: no new notification
	res, err = f.bags.DeliverToWarehouse(ctx, []uint{a.ID})
	require.NoError(t, err)
	assert.Empty(t, res.Delivered)
	assert.EqualValues(t, 1, f.count(t, &models.Notification{}, ""))
}

func TestDeliverToWarehouseIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	sealed := testutil.CreateBag(t, f.db, "BAG-S", agent.ID, models.BagSealed)
	open := testutil.CreateBag(t, f.db, "BAG-O", agent.ID, models.BagOpen)

	_, err := f.bags.DeliverToWarehouse(ctx, []uint{sealed.ID, open.ID})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, models.BagSealed, f.reloadBag(t, sealed.ID).Status)

	_, err = f.bags.DeliverToWarehouse(ctx, []uint{sealed.ID, 9999})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.BagSealed, f.reloadBag(t, sealed.ID).Status)

	_, err = f.bags.DeliverToWarehouse(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)

	assert.EqualValues(t, 0, f.count(t, &models.Notification{}, ""))
}

func TestEmptyBag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagSealed)
	for _, code := range []string{"RET1", "RET2"} {
		ret := testutil.CreateReturn(t, f.db, code, "Chennai", models.PickupBagged, nil)
		testutil.CreateBagItem(t, f.db, bag, ret, nil, models.ItemReport)
	}

	removed, err := f.bags.EmptyBag(ctx, bag.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
	assert.Equal(t, models.BagSealed, f.reloadBag(t, bag.ID).Status)

	finished := testutil.CreateBag(t, f.db, "BAG-F", agent.ID, models.BagFinished)
	_, err = f.bags.EmptyBag(ctx, finished.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListForWarehouseStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	whID := uint(7)
	staff := testutil.CreateUser(t, f.db, "wh", models.RoleWarehouseStaff, &whID)
	loose := testutil.CreateUser(t, f.db, "loose", models.RoleWarehouseStaff, nil)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")

	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagSealed)
	require.NoError(t, f.db.Model(bag).Update("warehouse_id", whID).Error)
	testutil.CreateBag(t, f.db, "BAG-2", agent.ID, models.BagSealed)

	bags, err := f.bags.ListForWarehouseStaff(ctx, staff.ID)
	require.NoError(t, err)
	require.Len(t, bags, 1)
	assert.Equal(t, "BAG-1", bags[0].BagCode)

	_, err = f.bags.ListForWarehouseStaff(ctx, loose.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}
