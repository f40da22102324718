package services

import (
	"context"
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardToQC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	phone := testutil.CreateProduct(t, f.db, "PROD-001", "Phone", "Electronics")
	shirt := testutil.CreateProduct(t, f.db, "PROD-002", "Shirt", "Apparel")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagInWarehouse)

	r1 := testutil.CreateReturn(t, f.db, "RET1", "Chennai", models.PickupBagged, phone)
	r2 := testutil.CreateReturn(t, f.db, "RET2", "Chennai", models.PickupBagged, shirt)
	r3 := testutil.CreateReturn(t, f.db, "RET3", "Chennai", models.PickupBagged, shirt)
	testutil.CreateBagItem(t, f.db, bag, r1, testutil.ExpectedPtr(models.ExpectedYes), models.ItemProceed)
	testutil.CreateBagItem(t, f.db, bag, r2, testutil.ExpectedPtr(models.ExpectedYes), models.ItemProceed)
	testutil.CreateBagItem(t, f.db, bag, r3, testutil.ExpectedPtr(models.ExpectedNo), models.ItemReport)

	sub := f.hub.Subscribe(string(models.NotifyQC))
	defer f.hub.Unsubscribe(sub.ID)

	n, err := f.forwarding.ForwardToQC(ctx, bag.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var tasks []models.QCTask
	require.NoError(t, f.db.Order("id").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	assert.Equal(t, "PROD-001", tasks[0].ProductID)
	assert.Equal(t, "Phone", tasks[0].ProductName)
	assert.Equal(t, "Apparel", tasks[1].ProductType)
	for _, task := range tasks {
		assert.Equal(t, models.QCTaskPending, task.Status)
	}

	select {
	case ev := <-sub.Events:
		assert.Contains(t, ev.Data, "Items Forwarded to QC")
	case <-time.After(time.Second):
		t.Fatal("expected a pushed notification")
	}

	// forwarding again finds nothing new
	_, err = f.forwarding.ForwardToQC(ctx, bag.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.EqualValues(t, 2, f.count(t, &models.QCTask{}, ""))
	assert.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_role = ?", models.NotifyQC))
}

func TestForwardToQCNothingEligible(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagInWarehouse)
	ret := testutil.CreateReturn(t, f.db, "RET1", "Chennai", models.PickupBagged, nil)
	testutil.CreateBagItem(t, f.db, bag, ret, testutil.ExpectedPtr(models.ExpectedMissing), models.ItemReport)

	n, err := f.forwarding.ForwardToQC(context.Background(), bag.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, n)
	assert.EqualValues(t, 0, f.count(t, &models.QCTask{}, ""))
	assert.EqualValues(t, 0, f.count(t, &models.Notification{}, ""))
}

func TestForwardToQCNeedsWarehouse(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	product := testutil.CreateProduct(t, f.db, "PROD-001", "Phone", "Electronics")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagSealed)
	ret := testutil.CreateReturn(t, f.db, "RET1", "Chennai", models.PickupBagged, product)
	testutil.CreateBagItem(t, f.db, bag, ret, testutil.ExpectedPtr(models.ExpectedYes), models.ItemProceed)

	_, err := f.forwarding.ForwardToQC(context.Background(), bag.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.forwarding.ForwardToQC(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
