package services

import (
	"context"
	"math"
	"time"

	"retrack-app/models"
	"retrack-app/repositories"
	"retrack-app/wms/master/warehouse"

	"gorm.io/gorm"
)

type OverviewService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOverviewService(db *gorm.DB) *OverviewService {
	return &OverviewService{db: db, now: time.Now}
}

type DayOverview struct {
	AgentID    *uint `json:"agentId,omitempty"`
	Total      int   `json:"total"`
	Completed  int   `json:"completed"`
	InProgress int   `json:"inProgress"`
	Pending    int   `json:"pending"`
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Today counts today's returns, Failed excluded. agentID narrows it to one
// agent.
func (s *OverviewService) Today(ctx context.Context, agentID *uint) (*DayOverview, error) {
	from, to := dayBounds(s.now())
	returns, err := repositories.NewReturnRepository(s.db).ActiveInWindow(ctx, from, to, agentID)
	if err != nil {
		return nil, err
	}

	out := &DayOverview{AgentID: agentID, Total: len(returns)}
	for _, r := range returns {
		switch {
		case r.PickupStatus.Normalized() == models.PickupCompleted || r.CompletedAt != nil:
			out.Completed++
		case r.PickupStatus.Normalized() == models.PickupInProgress:
			out.InProgress++
		case r.PickupStatus.Normalized() == models.PickupPending:
			out.Pending++
		}
	}
	return out, nil
}

type AdminSummary struct {
	TotalReturns  int64   `json:"totalReturns"`
	ActiveUsers   int64   `json:"activeAgents"`
	Warehouses    int64   `json:"warehouses"`
	QCSuccessRate float64 `json:"qcSuccessRate"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func rate(approved, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(approved) * 100 / float64(total))
}

// Summary reports the last 30 days of returns and the overall QC approval
// rate (approved reports per QC task).
func (s *OverviewService) Summary(ctx context.Context) (*AdminSummary, error) {
	out := &AdminSummary{}
	var err error

	if out.TotalReturns, err = repositories.NewReturnRepository(s.db).CountSince(ctx, s.now().UTC().AddDate(0, 0, -30)); err != nil {
		return nil, err
	}
	if out.ActiveUsers, err = repositories.NewUserRepository(s.db).CountByStatus(ctx, models.UserActive); err != nil {
		return nil, err
	}
	if err = s.db.WithContext(ctx).Model(&warehouse.Warehouse{}).Count(&out.Warehouses).Error; err != nil {
		return nil, err
	}

	qc := repositories.NewQCRepository(s.db)
	approved, err := qc.CountReports(ctx, models.DecisionApproved)
	if err != nil {
		return nil, err
	}
	tasks, err := qc.CountTasks(ctx)
	if err != nil {
		return nil, err
	}
	out.QCSuccessRate = rate(approved, tasks)
	return out, nil
}

type Trends struct {
	Year             int         `json:"year"`
	Months           []string    `json:"months"`
	MonthlyReturns   [12]int     `json:"monthlyReturns"`
	MonthlyQCRate    [12]float64 `json:"monthlyQCRate"`
	AgentPerformance [2]int64    `json:"agentPerformance"`
}

// Trends buckets the current year by month. AgentPerformance is
// [active, inactive] users.
func (s *OverviewService) Trends(ctx context.Context) (*Trends, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	out := &Trends{Year: now.Year(), Months: make([]string, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		out.Months = append(out.Months, m.String()[:3])
	}

	created, err := repositories.NewReturnRepository(s.db).CreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, t := range created {
		out.MonthlyReturns[t.UTC().Month()-1]++
	}

	qc := repositories.NewQCRepository(s.db)
	taskTimes, err := qc.TasksCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	reports, err := qc.ReportsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var tasks, approved [12]int64
	for _, t := range taskTimes {
		tasks[t.UTC().Month()-1]++
	}
	for _, r := range reports {
		if r.FinalDecision == models.DecisionApproved {
			approved[r.CreatedAt.UTC().Month()-1]++
		}
	}
	for i := range out.MonthlyQCRate {
		out.MonthlyQCRate[i] = rate(approved[i], tasks[i])
	}

	users := repositories.NewUserRepository(s.db)
	if out.AgentPerformance[0], err = users.CountByStatus(ctx, models.UserActive); err != nil {
		return nil, err
	}
	if out.AgentPerformance[1], err = users.CountByStatus(ctx, models.UserInactive); err != nil {
		return nil, err
	}
	return out, nil
}
