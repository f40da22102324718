package services

import (
	"testing"
	"time"

	"retrack-app/models"
	"retrack-app/testutil"
	"retrack-app/wms/realtime"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	hub           *realtime.Hub
	notifications *NotificationService
	returns       *ReturnService
	bags          *BagService
	rec           *ReconciliationService
	forwarding    *ForwardingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	hub := realtime.NewHub(8)
	notes := NewNotificationService(db, hub, 10)
	return &fixture{
		db:            db,
		hub:           hub,
		notifications: notes,
		returns:       NewReturnService(db),
		bags:          NewBagService(db, notes),
		rec:           NewReconciliationService(db),
		forwarding:    NewForwardingService(db, notes),
	}
}

func (f *fixture) reloadBag(t *testing.T, id uint) models.Bag {
	t.Helper()
	var bag models.Bag
	require.NoError(t, f.db.First(&bag, id).Error)
	return bag
}

func (f *fixture) reloadReturn(t *testing.T, id uint) models.Return {
	t.Helper()
	var ret models.Return
	require.NoError(t, f.db.First(&ret, id).Error)
	return ret
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
