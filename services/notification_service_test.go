package services

import (
	"context"
	"testing"

	"retrack-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationListAndMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := f.notifications.Notify(ctx, models.NotifyQC, "Title", "Message")
		require.NoError(t, err)
	}
	n, err := f.notifications.Notify(ctx, models.NotifyAdmin, "Admin", "Only admins")
	require.NoError(t, err)

	list, err := f.notifications.List(ctx, models.NotifyQC, 0)
	require.NoError(t, err)
	assert.Len(t, list, 10)
	for _, item := range list {
		assert.Equal(t, models.NotifyQC, item.UserRole)
	}

	read, err := f.notifications.MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	read, err = f.notifications.MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = f.notifications.MarkRead(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishWithoutHub(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.db, nil, 10)

	n, err := svc.Notify(context.Background(), models.NotifyWarehouse, "t", "m")
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Nil(t, svc.Hub())
}
