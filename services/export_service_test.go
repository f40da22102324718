package services

import (
	"context"
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBagManifestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	bag := testutil.CreateBag(t, f.db, "BAG-250101000000000", agent.ID, models.BagInWarehouse)
	product := testutil.CreateProduct(t, f.db, "PROD-001", "Phone", "Electronics")
	ret := testutil.CreateReturn(t, f.db, "RET1", "Adyar, Chennai", models.PickupBagged, product)
	testutil.CreateBagItem(t, f.db, bag, ret, testutil.ExpectedPtr(models.ExpectedYes), models.ItemProceed)

	name, buf, err := NewExportService(f.db).BagManifest(ctx, bag.ID)
	require.NoError(t, err)
	assert.Equal(t, "BAG-250101000000000.xlsx", name)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Manifest")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bag Code", rows[0][0])
	assert.Equal(t, "RET1", rows[1][2])
	assert.Equal(t, "PROD-001", rows[1][5])
	assert.Equal(t, "Phone", rows[1][6])
	assert.Equal(t, "Yes", rows[1][8])
	assert.Equal(t, "Proceed", rows[1][9])

	_, _, err = NewExportService(f.db).BagManifest(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQCReportsExport(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, f.db.Create(&models.QCReport{
		ProductID: "PROD-001", FinalDecision: models.DecisionApproved,
		InspectorName: "QC One", InspectionDate: at, CreatedAt: at,
	}).Error)

	buf, err := NewExportService(f.db).QCReports(context.Background())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("QC Reports")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PROD-001", rows[1][1])
	assert.Equal(t, "Approved", rows[1][4])
	assert.Equal(t, "2025-06-01 10:30", rows[1][6])
}
