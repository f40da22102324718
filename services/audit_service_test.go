package services

import (
	"context"
	"testing"

	"retrack-app/models"
	"retrack-app/testutil"
	"retrack-app/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditTrailForVerify(t *testing.T) {
	f := newFixture(t)
	agent := testutil.CreateAgent(t, f.db, "Ravi", "Chennai")
	ret := testutil.CreateReturn(t, f.db, "RET0400", "Adyar, Chennai", models.PickupPending, nil)
	audit := NewAuditService(f.db)

	ctx := WithActor(context.Background(), &agent.ID)
	_, err := f.returns.Verify(ctx, "RET0400", agent.ID)
	require.NoError(t, err)

	history, err := audit.History(context.Background(), EntityReturn, ret.ReturnCode)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].PerformedByUserID)
	assert.Equal(t, agent.ID, *history[0].PerformedByUserID)
	assert.NotZero(t, history[0].ID)

	byUser, err := audit.List(context.Background(), 0, &agent.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	got, err := audit.Get(context.Background(), history[0].ID)
	require.NoError(t, err)
	assert.Equal(t, history[0].Action, got.Action)

	_, err = audit.Get(context.Background(), types.SnowflakeID(42))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditListLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, recordAudit(context.Background(), f.db, EntityBag, i, "Created", "test"))
	}
	audit := NewAuditService(f.db)

	all, err := audit.List(context.Background(), -1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Nil(t, all[0].PerformedByUserID)

	one, err := audit.List(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
