//go:build integration
// +build integration

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pilot/internal/types"
)

func testRun(accountID uuid.UUID) *types.GenerationRun {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	return &types.GenerationRun{
		AccountID:     accountID,
		WeekNumber:    1,
		WeekStartDate: start,
		WeekEndDate:   start.AddDate(0, 0, 6),
	}
}

func TestAcquireGenerationLease_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	accountID := uuid.New()

	id, err := db.AcquireGenerationLease(ctx, testRun(accountID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	// Second attempt while the first run is live must be refused and
	// name the live run.
	_, err = db.AcquireGenerationLease(ctx, testRun(accountID))
	require.Error(t, err)

	var inProgress *GenerationInProgressError
	require.ErrorAs(t, err, &inProgress)
	assert.Equal(t, id, inProgress.GenerationID)
}

func TestAcquireGenerationLease_ReleasedAfterCompletion_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	accountID := uuid.New()

	id, err := db.AcquireGenerationLease(ctx, testRun(accountID))
	require.NoError(t, err)

	require.NoError(t, db.CompleteGeneration(ctx, id, 7, 5))

	run, err := db.GetGeneration(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, types.GenerationStatusCompleted, run.Status)
	assert.Equal(t, 7, run.XPostsCount)
	assert.Equal(t, 5, run.LinkedInPostsCount)

	// Lease is free again.
	second, err := db.AcquireGenerationLease(ctx, testRun(accountID))
	require.NoError(t, err)
	assert.NotEqual(t, id, second)

	count, err := db.CountCompletedGenerations(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFailGeneration_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	accountID := uuid.New()

	id, err := db.AcquireGenerationLease(ctx, testRun(accountID))
	require.NoError(t, err)

	require.NoError(t, db.FailGeneration(ctx, id, "schedule generation failed"))

	run, err := db.GetGeneration(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.GenerationStatusFailed, run.Status)
	assert.Equal(t, "schedule generation failed", run.ErrorMessage)

	// A failed run does not hold the lease.
	_, err = db.AcquireGenerationLease(ctx, testRun(accountID))
	assert.NoError(t, err)

	var inProgress *GenerationInProgressError
	assert.False(t, errors.As(err, &inProgress))
}
