package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScorer struct {
	calls  int
	scores *RiskScores
	err    error
}

func (c *countingScorer) Score(context.Context) (*RiskScores, error) {
	c.calls++
	return c.scores, c.err
}

func TestScoreSamplesNeedsEnoughRows(t *testing.T) {
	out := scoreSamples(make([]riskSample, minRiskRows-1))
	assert.Equal(t, &RiskScores{}, out)
}

func TestScoreSamplesBounds(t *testing.T) {
	samples := make([]riskSample, 0, 20)
	for i := 0; i < 18; i++ {
		samples = append(samples, riskSample{expected: 1, inWarehouse: 1, warehouseID: 2})
	}
	samples = append(samples,
		riskSample{reported: 1, sealBroken: 1, warehouseID: 9},
		riskSample{reported: 1, sealBroken: 1, warehouseID: 9},
	)

	out := scoreSamples(samples)
	for _, v := range []float64{out.CustomerRisk, out.AgentRisk, out.WarehouseRisk, out.SystemRisk} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	// the two odd rows stand out from the rest
	assert.Greater(t, out.CustomerRisk, out.SystemRisk)
	assert.Equal(t, out.CustomerRisk, out.WarehouseRisk)
}

func TestScoreSamplesUniformDataIsZero(t *testing.T) {
	samples := make([]riskSample, 12)
	for i := range samples {
		samples[i] = riskSample{expected: 1, inWarehouse: 1}
	}
	assert.Equal(t, &RiskScores{}, scoreSamples(samples))
}

func TestOutlierScorerReadsBagItems(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	bag := testutil.CreateBag(t, f.db, "BAG-1", agent.ID, models.BagInWarehouse)
	for i := 0; i < 3; i++ {
		ret := testutil.CreateReturn(t, f.db, "RET"+string(rune('A'+i)), "Chennai", models.PickupBagged, nil)
		testutil.CreateBagItem(t, f.db, bag, ret, nil, models.ItemReport)
	}

	out, err := NewOutlierScorer(f.db).Score(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &RiskScores{}, out)
}

func TestRiskServiceWithoutCache(t *testing.T) {
	scorer := &countingScorer{scores: &RiskScores{SystemRisk: 12.5}}
	svc := NewRiskService(scorer, nil, time.Minute)

	for i := 0; i < 2; i++ {
		out, err := svc.Scores(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12.5, out.SystemRisk)
	}
	assert.Equal(t, 2, scorer.calls)

	scorer.err = errors.New("boom")
	_, err := NewRiskService(scorer, nil, 0).Scores(context.Background())
	assert.Error(t, err)
}

func TestRiskServiceCacheUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()

	scorer := &countingScorer{scores: &RiskScores{AgentRisk: 3}}
	out, err := NewRiskService(scorer, rdb, time.Minute).Scores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.AgentRisk)
	assert.Equal(t, 1, scorer.calls)
}
