package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"
	"retrack-app/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultShift = "Morning"

type UserService struct {
	db     *gorm.DB
	repo   *repositories.UserRepository
	mailer Mailer
	now    func() time.Time
}

func NewUserService(db *gorm.DB, mailer Mailer) *UserService {
	return &UserService{db: db, repo: repositories.NewUserRepository(db), mailer: mailer, now: time.Now}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context, role, status string) ([]models.User, error) {
	var r models.Role
	var st models.UserStatus
	var err error
	if role != "" {
		if r, err = models.ParseRole(role); err != nil {
			return nil, validation("%s", err.Error())
		}
	}
	if status != "" {
		if st, err = models.ParseUserStatus(status); err != nil {
			return nil, validation("%s", err.Error())
		}
	}
	return s.repo.GetAll(ctx, r, st)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewUserRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, EntityUser, id, "Deleted", "")
	})
}

type UpdateUserStatusInput struct {
	Status      string `json:"status" validate:"required"`
	Shift       string `json:"shift"`
	WarehouseID *uint  `json:"warehouseId"`
}

// UpdateStatus changes a registration status. Approving a user activates
// the account, assigns the public id and an initial password, and mails the
// credentials.
func (s *UserService) UpdateStatus(ctx context.Context, id uint, in UpdateUserStatusInput) (*models.User, error) {
	status, err := models.ParseUserStatus(in.Status)
	if err != nil {
		return nil, validation("%s", err.Error())
	}

	var user *models.User
	var password string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewUserRepository(tx)
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return lookup(err, "User not found")
		}
		approving := status == models.UserActive && u.Status != models.UserActive
		u.Status = status

		if approving {
			now := s.now().UTC()
			u.EmploymentDate = &now
			u.UserID = fmt.Sprintf("%s%04d", u.Role.IDPrefix(), u.ID)

			if u.Role == models.RoleWarehouseStaff || u.Role == models.RoleQCStaff {
				u.Shift = strings.TrimSpace(in.Shift)
				if u.Shift == "" {
					u.Shift = defaultShift
				}
				if in.WarehouseID != nil {
					u.WarehouseID = in.WarehouseID
				}
			}

			password, err = utils.RandomPassword(10)
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u.PasswordHash = string(hash)
		}

		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		user = u
		return recordAudit(ctx, tx, EntityUser, u.ID, "StatusChanged", string(status))
	})
	if err != nil {
		return nil, err
	}

	if password != "" {
		sendAsync(s.mailer, []string{user.Email}, "Your ReTrack account has been approved", approvalBody(user, password))
		logger.L().Info("user approved", zap.Uint("user", user.ID), zap.String("public_id", user.UserID))
	}
	return user, nil
}

func approvalBody(u *models.User, password string) string {
	return fmt.Sprintf(`<p>Hello %s,</p>
<p>Your registration as <b>%s</b> has been approved.</p>
<p>User ID: <b>%s</b><br>Temporary password: <b>%s</b></p>
<p>Please change the password after your first login.</p>`, u.Name, u.Role, u.UserID, password)
}
