package services

import (
	"context"
	"fmt"
	"time"

	"retrack-app/models"
	"retrack-app/repositories"
	"retrack-app/types"

	"gorm.io/gorm"
)

const (
	EntityReturn  = "Return"
	EntityBag     = "Bag"
	EntityBagItem = "BagItem"
	EntityQC      = "QCReport"
	EntityUser    = "User"
	EntityIssue   = "IssueReport"
)

type actorKey struct{}

// WithActor attaches the acting user id to ctx so audit entries can record it.
func WithActor(ctx context.Context, userID *uint) context.Context {
	if userID == nil {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, *userID)
}

func actorFrom(ctx context.Context) *uint {
	if id, ok := ctx.Value(actorKey{}).(uint); ok {
		return &id
	}
	return nil
}

// recordAudit writes an audit row through db, which is normally the
// transaction of the operation being audited.
func recordAudit(ctx context.Context, db *gorm.DB, entity string, entityID interface{}, action, details string) error {
	entry := &models.AuditLog{
		Entity:            entity,
		EntityID:          fmt.Sprint(entityID),
		Action:            action,
		Details:           details,
		PerformedByUserID: actorFrom(ctx),
		CreatedAt:         time.Now().UTC(),
	}
	if err := repositories.NewAuditRepository(db).Create(ctx, entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
)

type AuditService struct {
	repo *repositories.AuditRepository
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{repo: repositories.NewAuditRepository(db)}
}

// List returns the newest entries. limit is clamped to [1, 1000] and defaults
// to 50.
func (s *AuditService) List(ctx context.Context, limit int, userID *uint) ([]models.AuditLog, error) {
	switch {
	case limit <= 0:
		limit = defaultAuditLimit
	case limit > maxAuditLimit:
		limit = maxAuditLimit
	}
	return s.repo.List(ctx, limit, userID)
}

func (s *AuditService) Get(ctx context.Context, id types.SnowflakeID) (*models.AuditLog, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Audit log not found")
	}
	return entry, nil
}

func (s *AuditService) History(ctx context.Context, entity string, entityID interface{}) ([]models.AuditLog, error) {
	return s.repo.ListForEntity(ctx, entity, fmt.Sprint(entityID))
}
