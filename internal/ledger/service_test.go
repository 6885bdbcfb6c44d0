package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2024, 2, 10, 15, 30, 0, 0, time.UTC)
}

func TestService_AddReps(t *testing.T) {
	svc := NewService(NewMockLedgerRepo(), testNow)
	ctx := context.Background()

	res, err := svc.AddReps(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", res.Day)
	assert.Equal(t, 30, res.Count)
	assert.False(t, res.GoalReached)

	res, err = svc.AddReps(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 80, res.Count)
	assert.False(t, res.GoalReached)

	// crossing the goal fires the celebration exactly once
	res, err = svc.AddReps(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, 105, res.Count)
	assert.True(t, res.GoalReached)

	res, err = svc.AddReps(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 115, res.Count)
	assert.False(t, res.GoalReached)
}

func TestService_AddReps_NonPositiveIsNoOp(t *testing.T) {
	svc := NewService(NewMockLedgerRepo(), testNow)
	ctx := context.Background()

	_, err := svc.AddReps(ctx, 20)
	require.NoError(t, err)

	for _, amount := range []int{0, -1, -100} {
		res, err := svc.AddReps(ctx, amount)
		require.NoError(t, err)
		assert.Equal(t, 20, res.Count)
		assert.Equal(t, 0, res.Added)
	}
}

func TestService_UndoLast(t *testing.T) {
	svc := NewService(NewMockLedgerRepo(), testNow)
	ctx := context.Background()

	_, err := svc.AddReps(ctx, 30)
	require.NoError(t, err)
	res, err := svc.AddReps(ctx, 25)
	require.NoError(t, err)
	require.Equal(t, 55, res.Count)

	// undo reverts exactly the last addition
	res, err = svc.UndoLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Count)

	// second undo without an intervening add is a no-op
	res, err = svc.UndoLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Count)
}

func TestService_UndoLast_NothingToUndo(t *testing.T) {
	svc := NewService(NewMockLedgerRepo(), testNow)

	res, err := svc.UndoLast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
}

func TestService_UndoLast_ClampedAtZero(t *testing.T) {
	repo := NewMockLedgerRepo()
	svc := NewService(repo, testNow)
	ctx := context.Background()

	_, err := svc.AddReps(ctx, 40)
	require.NoError(t, err)

	// something else lowered today's count under the last added amount
	require.NoError(t, repo.SetDay(ctx, "2024-02-10", 10))

	res, err := svc.UndoLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
}

func TestService_MergeRemote(t *testing.T) {
	svc := NewService(NewMockLedgerRepo(), testNow)
	ctx := context.Background()

	_, err := svc.AddReps(ctx, 50)
	require.NoError(t, err)

	merged, err := svc.MergeRemote(ctx, DailyRecord{
		"2024-02-10": 40,  // lower than local, must not win
		"2024-02-09": 110, // only remote
	})
	require.NoError(t, err)

	assert.Equal(t, DailyRecord{
		"2024-02-10": 50,
		"2024-02-09": 110,
	}, merged)

	// merging the same remote again changes nothing
	mergedAgain, err := svc.MergeRemote(ctx, DailyRecord{
		"2024-02-10": 40,
		"2024-02-09": 110,
	})
	require.NoError(t, err)
	assert.Equal(t, merged, mergedAgain)
}
