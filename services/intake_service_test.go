package services

import (
	"context"
	"strings"
	"testing"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const intakeCSV = `location,return_code,customer_name,customer_phone,product_id
"Adyar, Chennai",ret0200,Asha,0900000001,PROD-001
"T Nagar, Chennai",RET0201,Bala,0900000002,
,RET0202,Chitra,0900000003,PROD-001
"Adyar, Chennai",RET0203,Dev,0900000004,PROD-999
"Adyar, Chennai",RET0200,Asha,0900000001,PROD-001
"Adyar, Chennai",RET0100,Old,0900000005,

`

func TestParseIntakeCSV(t *testing.T) {
	rows, err := ParseIntakeCSV(strings.NewReader(intakeCSV))
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "ret0200", rows[0].ReturnCode)
	assert.Equal(t, "Adyar, Chennai", rows[0].Location)
	assert.Empty(t, rows[0].ProductCategory)

	_, err = ParseIntakeCSV(strings.NewReader("return_code,location\n"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseIntakeCSV(strings.NewReader("return_code,location\nRET1,Chennai\n"))
	assert.ErrorIs(t, err, ErrValidation, "customer columns are required")
}

func TestImportReturns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateProduct(t, f.db, "PROD-001", "Phone", "Electronics")
	testutil.CreateReturn(t, f.db, "RET0100", "Chennai", models.PickupBagged, nil)
	catalog, err := LoadProductCatalog(ctx, f.db)
	require.NoError(t, err)
	svc := NewIntakeService(f.db, catalog)

	rows, err := ParseIntakeCSV(strings.NewReader(intakeCSV))
	require.NoError(t, err)
	res, err := svc.Import(ctx, rows)
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalRows)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 2, res.SkippedCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.ElementsMatch(t, []string{"RET0200", "RET0100"}, res.SkippedItems)
	require.Len(t, res.ErrorMessages, 2)
	assert.Contains(t, res.ErrorMessages[0], "Row 4")
	assert.Contains(t, res.ErrorMessages[1], "PROD-999")

	imported, err := f.returns.Get(ctx, "RET0200")
	require.NoError(t, err)
	assert.Equal(t, models.PickupPending, imported.PickupStatus)
	assert.Equal(t, "Electronics", imported.ProductCategory)
	require.NotNil(t, imported.ProductID)

	// the existing return is left alone
	old, err := f.returns.Get(ctx, "RET0100")
	require.NoError(t, err)
	assert.Equal(t, models.PickupBagged, old.PickupStatus)
}

func TestParseIntakeXLSX(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	records := [][]interface{}{
		{"return_code", "customer_name", "customer_phone", "location", "product_id", "product_category"},
		{"RET0300", "Esha", "0900000006", "Mylapore, Chennai", "PROD-001", "Gadgets"},
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &rec))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseIntakeXLSX(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "RET0300", rows[0].ReturnCode)
	assert.Equal(t, "Gadgets", rows[0].ProductCategory)

	_, err = ParseIntakeXLSX(strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, ErrValidation)
}
