package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RiskScores are percentages in [0, 100].
type RiskScores struct {
	CustomerRisk  float64 `json:"customerRisk"`
	AgentRisk     float64 `json:"agentRisk"`
	WarehouseRisk float64 `json:"warehouseRisk"`
	SystemRisk    float64 `json:"systemRisk"`
}

// RiskScorer produces the dashboard risk scores. The model behind it is
// replaceable.
type RiskScorer interface {
	Score(ctx context.Context) (*RiskScores, error)
}

const minRiskRows = 10

type riskSample struct {
	expected    float64
	reported    float64
	sealBroken  float64
	inWarehouse float64
	warehouseID float64
}

func (r riskSample) features() []float64 {
	return []float64{r.expected, r.reported, r.sealBroken, r.inWarehouse, r.warehouseID}
}

// OutlierScorer rates each bag item by its mean normalized distance from the
// feature means, then averages the scores per risk group.
type OutlierScorer struct {
	db *gorm.DB
}

func NewOutlierScorer(db *gorm.DB) *OutlierScorer {
	return &OutlierScorer{db: db}
}

func (s *OutlierScorer) Score(ctx context.Context) (*RiskScores, error) {
	rows, err := repositories.NewBagItemRepository(s.db).RiskFeatures(ctx)
	if err != nil {
		return nil, err
	}
	samples := make([]riskSample, 0, len(rows))
	for _, r := range rows {
		sample := riskSample{}
		if r.Expected != nil && *r.Expected == string(models.ExpectedYes) {
			sample.expected = 1
		}
		if r.Status == string(models.ItemReport) {
			sample.reported = 1
		}
		if r.SealIntegrity != string(models.SealIntact) {
			sample.sealBroken = 1
		}
		if r.BagStatus == string(models.BagInWarehouse) {
			sample.inWarehouse = 1
		}
		if r.WarehouseID != nil {
			sample.warehouseID = float64(*r.WarehouseID)
		}
		samples = append(samples, sample)
	}
	return scoreSamples(samples), nil
}

func scoreSamples(samples []riskSample) *RiskScores {
	out := &RiskScores{}
	if len(samples) < minRiskRows {
		return out
	}

	const nf = 5
	var mean, lo, hi [nf]float64
	for f := 0; f < nf; f++ {
		lo[f] = math.Inf(1)
		hi[f] = math.Inf(-1)
	}
	for _, s := range samples {
		for f, v := range s.features() {
			mean[f] += v / float64(len(samples))
			lo[f] = math.Min(lo[f], v)
			hi[f] = math.Max(hi[f], v)
		}
	}

	var customer, agent, warehouse, system []float64
	for _, s := range samples {
		var sum float64
		var used int
		for f, v := range s.features() {
			span := hi[f] - lo[f]
			if span == 0 {
				continue
			}
			sum += math.Abs(v-mean[f]) / span
			used++
		}
		score := 0.0
		if used > 0 {
			score = sum / float64(used)
		}

		system = append(system, score)
		if s.reported == 1 {
			customer = append(customer, score)
		}
		if s.inWarehouse == 0 {
			agent = append(agent, score)
		}
		if s.sealBroken == 1 {
			warehouse = append(warehouse, score)
		}
	}

	out.CustomerRisk = percent(customer)
	out.AgentRisk = percent(agent)
	out.WarehouseRisk = percent(warehouse)
	out.SystemRisk = percent(system)
	return out
}

func percent(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return round2(math.Min(1, sum/float64(len(scores))) * 100)
}

const riskCacheKey = "retrack:risk:scores"

// RiskService caches scorer results in Redis when a client is configured.
type RiskService struct {
	scorer RiskScorer
	rdb    *redis.Client
	ttl    time.Duration
}

func NewRiskService(scorer RiskScorer, rdb *redis.Client, ttl time.Duration) *RiskService {
	return &RiskService{scorer: scorer, rdb: rdb, ttl: ttl}
}

func (s *RiskService) Scores(ctx context.Context) (*RiskScores, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, riskCacheKey).Bytes()
		switch {
		case err == nil:
			var cached RiskScores
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		case !errors.Is(err, redis.Nil):
			logger.L().Warn("risk cache read failed", zap.Error(err))
		}
	}

	scores, err := s.scorer.Score(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil && s.ttl > 0 {
		if data, err := json.Marshal(scores); err == nil {
			if err := s.rdb.Set(ctx, riskCacheKey, data, s.ttl).Err(); err != nil {
				logger.L().Warn("risk cache write failed", zap.Error(err))
			}
		}
	}
	return scores, nil
}
