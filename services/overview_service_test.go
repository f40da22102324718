package services

import (
	"context"
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"
	"retrack-app/wms/master/warehouse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	from, to := dayBounds(time.Date(2025, 4, 9, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), to)
}

func TestRate(t *testing.T) {
	assert.Zero(t, rate(3, 0))
	assert.Equal(t, 66.67, rate(2, 3))
	assert.Equal(t, 100.0, rate(4, 4))
}

func TestOverviewToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOverviewService(f.db)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")

	testutil.CreateReturn(t, f.db, "RET1", "Chennai", models.PickupPending, nil)
	testutil.CreateReturn(t, f.db, "RET2", "Chennai", models.PickupFailed, nil)
	mine := testutil.CreateReturn(t, f.db, "RET3", "Chennai", models.PickupInProgress, nil)
	require.NoError(t, f.db.Model(mine).Update("pickup_agent_id", agent.ID).Error)
	done := testutil.CreateReturn(t, f.db, "RET4", "Chennai", models.PickupBagged, nil)
	_, err := f.returns.Complete(ctx, done.ID)
	require.NoError(t, err)

	all, err := svc.Today(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 1, all.Pending)
	assert.Equal(t, 1, all.InProgress)
	assert.Equal(t, 1, all.Completed)

	own, err := svc.Today(ctx, &agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, own.Total)
	assert.Equal(t, 1, own.InProgress)
}

func TestOverviewSummaryAndTrends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOverviewService(f.db)
	require.NoError(t, warehouse.SeedWarehouses(f.db))

	testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	inactive := testutil.CreateAgent(t, f.db, "old", "Chennai")
	require.NoError(t, f.db.Model(inactive).Update("status", models.UserInactive).Error)
	testutil.CreateReturn(t, f.db, "RET1", "Chennai", models.PickupPending, nil)

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		require.NoError(t, f.db.Create(&models.QCTask{ProductID: "PROD-001", Status: models.QCTaskPending, CreatedAt: now}).Error)
	}
	for _, d := range []models.FinalDecision{models.DecisionApproved, models.DecisionApproved, models.DecisionRejected} {
		require.NoError(t, f.db.Create(&models.QCReport{ProductID: "PROD-001", FinalDecision: d, CreatedAt: now, InspectionDate: now}).Error)
	}

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.TotalReturns)
	assert.EqualValues(t, 1, sum.ActiveUsers)
	assert.EqualValues(t, 3, sum.Warehouses)
	assert.Equal(t, 50.0, sum.QCSuccessRate)

	trends, err := svc.Trends(ctx)
	require.NoError(t, err)
	assert.Equal(t, now.Year(), trends.Year)
	require.Len(t, trends.Months, 12)
	assert.Equal(t, "Jan", trends.Months[0])
	month := now.Month() - 1
	assert.Equal(t, 1, trends.MonthlyReturns[month])
	assert.Equal(t, 50.0, trends.MonthlyQCRate[month])
	assert.Equal(t, [2]int64{1, 1}, trends.AgentPerformance)
}
