package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/content-pilot/internal/types"
)

// GenerationInProgressError reports that another run already holds the
// per-account generation lease. GenerationID identifies the live run so
// callers can surface it.
type GenerationInProgressError struct {
	GenerationID uuid.UUID
}

func (e *GenerationInProgressError) Error() string {
	return fmt.Sprintf("generation already in progress: %s", e.GenerationID)
}

// AcquireGenerationLease atomically creates a generating run for the
// account, unless a fresh one already exists. Runs stuck in generating
// past the staleness threshold are first marked failed so a crashed
// attempt never blocks the account forever. The insert and the
// in-progress check happen in one statement; two concurrent callers
// cannot both win.
func (db *DB) AcquireGenerationLease(ctx context.Context, run *types.GenerationRun) (uuid.UUID, error) {
	// Reclaim abandoned runs before attempting the lease.
	_, err := db.pool.Exec(ctx,
		`UPDATE content_generations
		 SET status = 'failed', error_message = 'generation timed out'
		 WHERE account_id = $1 AND status = 'generating'
		   AND created_at <= NOW() - $2::interval`,
		run.AccountID, types.StaleRunThreshold.String(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to reclaim stale generations: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO content_generations
		   (account_id, week_number, week_start_date, week_end_date, status)
		 SELECT $1, $2, $3, $4, 'generating'
		 WHERE NOT EXISTS (
		   SELECT 1 FROM content_generations
		   WHERE account_id = $1 AND status = 'generating'
		 )
		 RETURNING id`,
		run.AccountID, run.WeekNumber, run.WeekStartDate, run.WeekEndDate,
	).Scan(&id)
	if err == pgx.ErrNoRows {
		activeID, lookupErr := db.activeGenerationID(ctx, run.AccountID)
		if lookupErr != nil {
			return uuid.Nil, lookupErr
		}
		return uuid.Nil, &GenerationInProgressError{GenerationID: activeID}
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to acquire generation lease: %w", err)
	}
	return id, nil
}

func (db *DB) activeGenerationID(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM content_generations
		 WHERE account_id = $1 AND status = 'generating'
		 ORDER BY created_at DESC LIMIT 1`,
		accountID,
	).Scan(&id)
	if err != nil && err != pgx.ErrNoRows {
		return uuid.Nil, fmt.Errorf("failed to find active generation: %w", err)
	}
	return id, nil
}

// CompleteGeneration marks the run completed and records how many posts
// were produced per platform.
func (db *DB) CompleteGeneration(ctx context.Context, generationID uuid.UUID, xCount, linkedinCount int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE content_generations
		 SET status = 'completed', x_posts_count = $1, linkedin_posts_count = $2
		 WHERE id = $3`,
		xCount, linkedinCount, generationID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete generation: %w", err)
	}
	return nil
}

// FailGeneration marks the run failed with the given message.
func (db *DB) FailGeneration(ctx context.Context, generationID uuid.UUID, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE content_generations SET status = 'failed', error_message = $1 WHERE id = $2`,
		message, generationID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark generation failed: %w", err)
	}
	return nil
}

// CountCompletedGenerations returns how many runs the account has
// finished. Week numbering for a new run is this count plus one.
func (db *DB) CountCompletedGenerations(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_generations
		 WHERE account_id = $1 AND status = 'completed'`,
		accountID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return count, nil
}

// GetGeneration retrieves a run by ID. Returns nil without error when
// no such run exists.
func (db *DB) GetGeneration(ctx context.Context, generationID uuid.UUID) (*types.GenerationRun, error) {
	var run types.GenerationRun
	var errMsg *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, account_id, week_number, week_start_date, week_end_date,
		        status, x_posts_count, linkedin_posts_count, error_message, created_at
		 FROM content_generations WHERE id = $1`,
		generationID,
	).Scan(&run.ID, &run.AccountID, &run.WeekNumber, &run.WeekStartDate, &run.WeekEndDate,
		&run.Status, &run.XPostsCount, &run.LinkedInPostsCount, &errMsg, &run.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	if errMsg != nil {
		run.ErrorMessage = *errMsg
	}
	return &run, nil
}
