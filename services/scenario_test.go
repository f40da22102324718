package services

import (
	"context"
	"testing"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Agent creates a bag, picks up a return, seals the bag and can no longer
// add to it.
func TestPickupToSealedBag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "agentA", "Chennai")
	r1 := testutil.CreateReturn(t, f.db, "R1", "Velachery, Chennai", models.PickupPending, nil)
	r2 := testutil.CreateReturn(t, f.db, "R2", "Guindy, Chennai", models.PickupPending, nil)

	bag, err := f.bags.CreateBag(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BagOpen, bag.Status)

	ret, err := f.returns.Verify(ctx, "R1", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupInProgress, ret.PickupStatus)

	_, err = f.bags.AssignReturn(ctx, bag.ID, "R1")
	require.NoError(t, err)
	assert.Equal(t, models.PickupBagged, f.reloadReturn(t, r1.ID).PickupStatus)
	assert.EqualValues(t, 1, f.count(t, &models.BagItem{}, "bag_id = ?", bag.ID))

	sealed, _, err := f.bags.SealBag(ctx, bag.BagCode)
	require.NoError(t, err)
	assert.Equal(t, models.BagSealed, sealed.Status)

	_, err = f.returns.Verify(ctx, "R2", agent.ID)
	require.NoError(t, err)
	_, err = f.bags.AssignReturn(ctx, bag.ID, "R2")
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "Bag is sealed.")
	assert.Equal(t, models.PickupInProgress, f.reloadReturn(t, r2.ID).PickupStatus)
}

func TestVerifyOutsideRegionChangesNothing(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "agentA", "Chennai")
	r4 := testutil.CreateReturn(t, f.db, "R4", "Koramangala, Bangalore", models.PickupPending, nil)

	_, err := f.returns.Verify(context.Background(), "R4", agent.ID)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "Return not for your region", err.Error())

	stored := f.reloadReturn(t, r4.ID)
	assert.Equal(t, models.PickupPending, stored.PickupStatus)
	assert.Nil(t, stored.PickupAgentID)
	assert.EqualValues(t, 0, f.count(t, &models.AuditLog{}, ""))
}

func TestForwardOnlyProceedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "agentA", "Chennai")
	product := testutil.CreateProduct(t, f.db, "PROD-010", "Blender", "Home")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagInWarehouse)
	ok := testutil.CreateReturn(t, f.db, "R1", "Chennai", models.PickupBagged, product)
	held := testutil.CreateReturn(t, f.db, "R2", "Chennai", models.PickupBagged, product)
	testutil.CreateBagItem(t, f.db, bag, ok, testutil.ExpectedPtr(models.ExpectedYes), models.ItemProceed)
	testutil.CreateBagItem(t, f.db, bag, held, testutil.ExpectedPtr(models.ExpectedNo), models.ItemReport)

	n, err := f.forwarding.ForwardToQC(ctx, bag.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.EqualValues(t, 1, f.count(t, &models.QCTask{}, "return_id = ?", ok.ID))

	notes, err := f.notifications.List(ctx, models.NotifyQC, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "has 1 item(s)")
}
