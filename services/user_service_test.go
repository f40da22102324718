package services

import (
	"context"
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type chanMailer chan sentMail

func (c chanMailer) Send(to []string, subject, body string) error {
	c <- sentMail{to: to, subject: subject, body: body}
	return nil
}

func TestApproveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mails := make(chanMailer, 1)
	svc := NewUserService(f.db, mails)
	whID := uint(3)
	user := testutil.CreateUser(t, f.db, "priya", models.RoleWarehouseStaff, nil)

	out, err := svc.UpdateStatus(ctx, user.ID, UpdateUserStatusInput{Status: "Approved", WarehouseID: &whID})
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, out.Status)
	assert.Equal(t, "Morning", out.Shift)
	require.NotNil(t, out.WarehouseID)
	assert.Equal(t, whID, *out.WarehouseID)
	assert.Regexp(t, `^WA\d{4}$`, out.UserID)
	assert.NotNil(t, out.EmploymentDate)

	var mail sentMail
	select {
	case mail = <-mails:
	case <-time.After(2 * time.Second):
		t.Fatal("approval mail not sent")
	}
	assert.Equal(t, []string{user.Email}, mail.to)
	assert.Contains(t, mail.body, out.UserID)

	var stored models.User
	require.NoError(t, f.db.First(&stored, user.ID).Error)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("wrong")))
}

func TestUpdateStatusWithoutApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mails := make(chanMailer, 1)
	svc := NewUserService(f.db, mails)
	user := testutil.CreateUser(t, f.db, "priya", models.RoleQCStaff, nil)

	out, err := svc.UpdateStatus(ctx, user.ID, UpdateUserStatusInput{Status: "Rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRejected, out.Status)
	assert.Empty(t, out.UserID)
	assert.Len(t, mails, 0)

	_, err = svc.UpdateStatus(ctx, user.ID, UpdateUserStatusInput{Status: "Sleeping"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, 9999, UpdateUserStatusInput{Status: "Active"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllUsersAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.db, nil)
	agent := testutil.CreateAgent(t, f.db, "ravi", "Chennai")
	testutil.CreateUser(t, f.db, "priya", models.RoleQCStaff, nil)

	agents, err := svc.GetAllUsers(ctx, "pickup agent", "")
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, agent.ID, agents[0].ID)

	pending, err := svc.GetAllUsers(ctx, "", "Pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.GetAllUsers(ctx, "Pilot", "")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.DeleteUser(ctx, agent.ID))
	_, err = svc.GetUserByID(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, agent.ID), ErrNotFound)
}
