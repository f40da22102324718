package services

import (
	"context"
	"testing"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconSetup struct {
	*fixture
	bag   *models.Bag
	items []*models.BagItem
}

func newReconSetup(t *testing.T, status models.BagStatus, codes ...string) *reconSetup {
	t.Helper()
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, status)
	s := &reconSetup{fixture: f, bag: bag}
	for _, code := range codes {
		ret := testutil.CreateReturn(t, f.db, code, "Chennai", models.PickupBagged, nil)
		s.items = append(s.items, testutil.CreateBagItem(t, f.db, bag, ret, nil, models.ItemReport))
	}
	return s
}

func (s *reconSetup) reloadItem(t *testing.T, id uint) models.BagItem {
	t.Helper()
	var item models.BagItem
	require.NoError(t, s.db.First(&item, id).Error)
	return item
}

func TestScanItemDerivesStatus(t *testing.T) {
	s := newReconSetup(t, models.BagInWarehouse, "RET1", "RET2")
	ctx := context.Background()

	item, err := s.rec.ScanItem(ctx, s.items[0].ID, "yes")
	require.NoError(t, err)
	assert.Equal(t, models.ItemProceed, item.Status)
	require.NotNil(t, item.Expected)
	assert.Equal(t, models.ExpectedYes, *item.Expected)

	_, err = s.rec.ScanItem(ctx, s.items[1].ID, "No")
	require.NoError(t, err)
	stored := s.reloadItem(t, s.items[1].ID)
	assert.Equal(t, models.ItemReport, stored.Status)
	assert.Equal(t, models.ExpectedNo, *stored.Expected)

	_, err = s.rec.ScanItem(ctx, s.items[1].ID, "maybe")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.rec.ScanItem(ctx, 9999, "Yes")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconciliationNeedsWarehouse(t *testing.T) {
	s := newReconSetup(t, models.BagSealed, "RET1")
	ctx := context.Background()

	_, err := s.rec.ScanItem(ctx, s.items[0].ID, "Yes")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.rec.SetSealIntegrity(ctx, s.bag.ID, "Broken")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.rec.FinishBag(ctx, s.bag.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Nil(t, s.reloadItem(t, s.items[0].ID).Expected)
}

func TestSetItemStatus(t *testing.T) {
	s := newReconSetup(t, models.BagInWarehouse, "RET1", "RET2")
	ctx := context.Background()

	_, err := s.rec.SetItemStatus(ctx, s.items[0].ID, "Proceed")
	assert.ErrorIs(t, err, ErrInvalidState, "unscanned item cannot proceed")

	_, err = s.rec.ScanItem(ctx, s.items[0].ID, "Yes")
	require.NoError(t, err)
	item, err := s.rec.SetItemStatus(ctx, s.items[0].ID, "Report")
	require.NoError(t, err)
	assert.Equal(t, models.ItemReport, item.Status)

	item, err = s.rec.SetItemStatus(ctx, s.items[0].ID, "proceed")
	require.NoError(t, err)
	assert.Equal(t, models.ItemProceed, item.Status)

	_, err = s.rec.SetItemStatus(ctx, s.items[1].ID, "Lost")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchReturnInBag(t *testing.T) {
	s := newReconSetup(t, models.BagInWarehouse, "RET1")
	ctx := context.Background()
	extra := testutil.CreateReturn(t, s.db, "RET-EXTRA", "Chennai", models.PickupPending, nil)

	item, created, err := s.rec.SearchReturnInBag(ctx, s.bag.ID, "RET1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s.items[0].ID, item.ID)

	item, created, err = s.rec.SearchReturnInBag(ctx, s.bag.ID, "RET-EXTRA")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, s.bag.ID, item.BagID)
	assert.Equal(t, models.PickupBagged, s.reloadReturn(t, extra.ID).PickupStatus)

	// found again, not duplicated
	_, created, err = s.rec.SearchReturnInBag(ctx, s.bag.ID, "RET-EXTRA")
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 1, s.count(t, &models.BagItem{}, "return_id = ?", extra.ID))

	_, _, err = s.rec.SearchReturnInBag(ctx, s.bag.ID, "RET-NONE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchReturnInOtherBagConflicts(t *testing.T) {
	s := newReconSetup(t, models.BagInWarehouse, "RET1")
	other := testutil.CreateBag(t, s.db, "BAG-2", s.bag.PickupAgentID, models.BagInWarehouse)

	_, _, err := s.rec.SearchReturnInBag(context.Background(), other.ID, "RET1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSetSealIntegrity(t *testing.T) {
	s := newReconSetup(t, models.BagInWarehouse)
	ctx := context.Background()

	bag, err := s.rec.SetSealIntegrity(ctx, s.bag.ID, "broken")
	require.NoError(t, err)
	assert.Equal(t, models.SealBroken, bag.SealIntegrity)
	assert.Equal(t, models.SealBroken, s.reloadBag(t, s.bag.ID).SealIntegrity)

	_, err = s.rec.SetSealIntegrity(ctx, s.bag.ID, "Unknown")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFinishBag(t *testing.T) {
	s := newReconSetup(t, models.BagInWarehouse, "RET1", "RET2", "RET3")
	ctx := context.Background()

	_, err := s.rec.ScanItem(ctx, s.items[0].ID, "Yes")
	require.NoError(t, err)
	_, err = s.rec.SetSealIntegrity(ctx, s.bag.ID, "Broken")
	require.NoError(t, err)

	res, err := s.rec.FinishBag(ctx, s.bag.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.MarkedMissing)
	assert.Equal(t, models.BagFinished, res.Bag.Status)

	stored := s.reloadBag(t, s.bag.ID)
	assert.Equal(t, models.BagFinished, stored.Status)
	assert.Equal(t, models.SealIntact, stored.SealIntegrity)
	assert.NotNil(t, stored.SealedAt)

	assert.Equal(t, models.ExpectedYes, *s.reloadItem(t, s.items[0].ID).Expected)
	for _, it := range s.items[1:] {
		got := s.reloadItem(t, it.ID)
		require.NotNil(t, got.Expected)
		assert.Equal(t, models.ExpectedMissing, *got.Expected)
	}

	// a finished bag is frozen
	_, err = s.rec.FinishBag(ctx, s.bag.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.rec.ScanItem(ctx, s.items[1].ID, "Yes")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, _, err = s.rec.SearchReturnInBag(ctx, s.bag.ID, "RET1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListItems(t *testing.T) {
	s := newReconSetup(t, models.BagSealed, "RET1", "RET2")

	items, err := s.rec.ListItems(context.Background(), s.bag.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = s.rec.ListItems(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
