package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReportOutcome string

const (
	OutcomeRescheduled ReportOutcome = "Rescheduled"
	OutcomeDeleted     ReportOutcome = "Deleted"
	OutcomeNoted       ReportOutcome = "Noted"
)

type ReportResult struct {
	Outcome ReportOutcome `json:"outcome"`
	Message string        `json:"message"`
}

type ReturnService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReturnService(db *gorm.DB) *ReturnService {
	return &ReturnService{db: db, now: time.Now}
}

// Verify confirms the agent is at the return's location and starts the
// pickup. Returns already past Pending are left as they are.
func (s *ReturnService) Verify(ctx context.Context, returnCode string, agentID uint) (*models.Return, error) {
	var out *models.Return
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		returns := repositories.NewReturnRepository(tx)

		ret, err := returns.FindByCode(ctx, strings.TrimSpace(returnCode))
		if err != nil {
			return lookup(err, "Invalid return ID")
		}
		agent, err := repositories.NewUserRepository(tx).GetByID(ctx, agentID)
		if err != nil {
			return lookup(err, "Agent not found")
		}
		if !RegionMatch(agent.City, ret.Location) {
			return invalidState("Return not for your region")
		}

		if ret.PickupStatus.Normalized() == models.PickupPending {
			moved, err := returns.SetStatus(ctx, ret.ID,
				[]models.PickupStatus{models.PickupPending, ""},
				models.PickupInProgress,
				map[string]interface{}{"pickup_agent_id": agent.ID})
			if err != nil {
				return err
			}
			if moved {
				ret.PickupStatus = models.PickupInProgress
				ret.PickupAgentID = &agent.ID
				if err := recordAudit(ctx, tx, EntityReturn, ret.ReturnCode, "Verified",
					fmt.Sprintf("pickup started by agent %d", agent.ID)); err != nil {
					return err
				}
			}
		}
		out = ret
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("return verified", zap.String("return", out.ReturnCode), zap.String("status", string(out.PickupStatus)))
	return out, nil
}

// Report records the outcome of a failed pickup attempt. The reason is
// matched case-insensitively. "Customer not available" puts the return back
// to Pending whatever its current status.
func (s *ReturnService) Report(ctx context.Context, returnCode, reason string) (*ReportResult, error) {
	var result *ReportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		returns := repositories.NewReturnRepository(tx)
		ret, err := returns.FindByCode(ctx, strings.TrimSpace(returnCode))
		if err != nil {
			return lookup(err, "Invalid return ID")
		}

		switch strings.ToLower(strings.TrimSpace(reason)) {
		case "customer not available":
			// dijadwalkan ulang dari status apa pun
			if _, err := returns.SetStatus(ctx, ret.ID, nil, models.PickupPending, nil); err != nil {
				return err
			}
			result = &ReportResult{Outcome: OutcomeRescheduled, Message: "Marked as customer not available"}
		case "return id not matched", "product not matched":
			if err := repositories.NewBagItemRepository(tx).DeleteByReturn(ctx, ret.ID); err != nil {
				return err
			}
			if err := returns.Delete(ctx, ret.ID); err != nil {
				return err
			}
			result = &ReportResult{Outcome: OutcomeDeleted, Message: "Return deleted due to mismatch"}
		default:
			result = &ReportResult{Outcome: OutcomeNoted, Message: "Report noted"}
			return nil
		}
		return recordAudit(ctx, tx, EntityReturn, ret.ReturnCode, string(result.Outcome), reason)
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("return reported", zap.String("return", returnCode), zap.String("outcome", string(result.Outcome)))
	return result, nil
}

// Complete stamps the QC result of a return. It does not check the return's
// pickup status.
func (s *ReturnService) Complete(ctx context.Context, returnID uint) (*models.Return, error) {
	var out *models.Return
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		returns := repositories.NewReturnRepository(tx)
		ret, err := returns.FindByID(ctx, returnID)
		if err != nil {
			return lookup(err, "Return not found")
		}
		now := s.now().UTC()
		if err := returns.MarkCompleted(ctx, ret.ID, now); err != nil {
			return err
		}
		ret.QCResult = "Completed"
		ret.CompletedAt = &now
		out = ret
		return recordAudit(ctx, tx, EntityReturn, ret.ReturnCode, "Completed", "")
	})
	return out, err
}

// ReturnDetail is a return together with the bag it currently sits in.
type ReturnDetail struct {
	models.Return
	BagCode *string `json:"bagCode"`
}

func (s *ReturnService) Get(ctx context.Context, returnCode string) (*ReturnDetail, error) {
	ret, err := repositories.NewReturnRepository(s.db).FindByCode(ctx, strings.TrimSpace(returnCode))
	if err != nil {
		return nil, lookup(err, "Invalid return ID")
	}
	out := &ReturnDetail{Return: *ret}

	item, err := repositories.NewBagItemRepository(s.db).FindByReturnID(ctx, ret.ID)
	switch {
	case err == nil:
		bag, err := repositories.NewBagRepository(s.db).FindByID(ctx, item.BagID)
		if err != nil {
			return nil, err
		}
		out.BagCode = &bag.BagCode
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return out, nil
}

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type PickupPage struct {
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
	Total    int64                    `json:"total"`
	Items    []repositories.PickupRow `json:"items"`
}

// ListPickups lists the returns in the agent's region.
func (s *ReturnService) ListPickups(ctx context.Context, agentID uint, page, pageSize int) (*PickupPage, error) {
	agent, err := s.agentWithCity(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	rows, total, err := repositories.NewReturnRepository(s.db).ListPickups(ctx, agent.City, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repositories.PickupRow{}
	}
	return &PickupPage{Page: page, PageSize: pageSize, Total: total, Items: rows}, nil
}

type AgentSummary struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Bagged     int64 `json:"bagged"`
	Failed     int64 `json:"failed"`
}

func (s *ReturnService) AgentSummary(ctx context.Context, agentID uint) (*AgentSummary, error) {
	agent, err := s.agentWithCity(ctx, agentID)
	if err != nil {
		return nil, err
	}
	counts, err := repositories.NewReturnRepository(s.db).CountByStatus(ctx, agent.City, nil, nil)
	if err != nil {
		return nil, err
	}

	sum := &AgentSummary{}
	for _, c := range counts {
		sum.Total += c.Total
		switch c.PickupStatus.Normalized() {
		case models.PickupPending:
			sum.Pending += c.Total
		case models.PickupInProgress:
			sum.InProgress += c.Total
		case models.PickupBagged:
			sum.Bagged += c.Total
		case models.PickupFailed:
			sum.Failed += c.Total
		}
	}
	return sum, nil
}

func (s *ReturnService) agentWithCity(ctx context.Context, agentID uint) (*models.User, error) {
	agent, err := repositories.NewUserRepository(s.db).GetByID(ctx, agentID)
	if err != nil {
		return nil, lookup(err, "Agent not found")
	}
	if strings.TrimSpace(agent.City) == "" {
		return nil, invalidState("Agent city not configured")
	}
	return agent, nil
}

type AgentReportInput struct {
	ReturnCode string     `json:"returnCode" validate:"required"`
	AgentID    uint       `json:"agentId" validate:"required"`
	IssueType  string     `json:"issueType"`
	Notes      string     `json:"notes"`
	OccurredAt *time.Time `json:"occurredAt"`
}

// RecordAgentReport stores a pickup issue raised by an agent. An open pickup
// goes back to Pending when the customer was not available and to Failed for
// any other issue. Returns already bagged keep their status.
func (s *ReturnService) RecordAgentReport(ctx context.Context, in AgentReportInput) (*models.AgentReport, models.PickupStatus, error) {
	issueType := strings.TrimSpace(in.IssueType)
	if issueType == "" {
		issueType = "General"
	}

	var report *models.AgentReport
	var status models.PickupStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		returns := repositories.NewReturnRepository(tx)
		ret, err := returns.FindByCode(ctx, strings.TrimSpace(in.ReturnCode))
		if err != nil {
			return lookup(err, "Invalid return ID")
		}

		now := s.now().UTC()
		occurred := now
		if in.OccurredAt != nil {
			occurred = in.OccurredAt.UTC()
		}
		report = &models.AgentReport{
			ReturnCode: ret.ReturnCode,
			ReturnID:   &ret.ID,
			AgentID:    in.AgentID,
			IssueType:  issueType,
			Notes:      in.Notes,
			OccurredAt: occurred,
			CreatedAt:  now,
		}
		if err := repositories.NewReportRepository(tx).CreateAgentReport(ctx, report); err != nil {
			return err
		}

		status = ret.PickupStatus.Normalized()
		next := models.PickupFailed
		extra := map[string]interface{}{"pickup_time": now, "failed_at": now}
		if strings.EqualFold(issueType, "Customer not available") {
			next = models.PickupPending
			extra = map[string]interface{}{"pickup_time": now}
		}
		moved, err := returns.SetStatus(ctx, ret.ID,
			[]models.PickupStatus{models.PickupPending, models.PickupInProgress, ""}, next, extra)
		if err != nil {
			return err
		}
		if moved {
			status = next
		}
		return recordAudit(ctx, tx, EntityReturn, ret.ReturnCode, "AgentReport", issueType)
	})
	if err != nil {
		return nil, "", err
	}
	return report, status, nil
}

func (s *ReturnService) ListAgentReports(ctx context.Context, agentID uint) ([]models.AgentReport, error) {
	return repositories.NewReportRepository(s.db).ListAgentReports(ctx, agentID)
}
