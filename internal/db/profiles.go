package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/content-pilot/internal/types"
)

const profileColumns = `id, account_id, platform_x, platform_linkedin, industry,
	target_audience, content_goal, topics, tone_formality, tone_boldness,
	tone_style, tone_approach, role, company_name, business_description,
	expertise, auto_publish, timezone, weekly_goal, goal_context, goal_set_at,
	awaiting_goal_input, next_generation_date, generation_count`

func scanProfile(row pgx.Row) (*types.Profile, error) {
	var p types.Profile
	var weeklyGoal, goalContext *string
	err := row.Scan(
		&p.ID, &p.AccountID, &p.Platforms.X, &p.Platforms.LinkedIn, &p.Industry,
		&p.TargetAudience, &p.ContentGoal, &p.Topics, &p.Tone.Formality, &p.Tone.Boldness,
		&p.Tone.Style, &p.Tone.Approach, &p.Role, &p.CompanyName, &p.BusinessDescription,
		&p.Expertise, &p.AutoPublish, &p.Timezone, &weeklyGoal, &goalContext, &p.GoalSetAt,
		&p.AwaitingGoalInput, &p.NextGenerationDate, &p.GenerationCount,
	)
	if err != nil {
		return nil, err
	}
	if weeklyGoal != nil {
		p.WeeklyGoal = *weeklyGoal
	}
	if goalContext != nil {
		p.GoalContext = *goalContext
	}
	return &p, nil
}

// GetProfile retrieves the content profile owned by an account.
// Returns nil without error when the account has no profile yet.
func (db *DB) GetProfile(ctx context.Context, accountID uuid.UUID) (*types.Profile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM content_profiles WHERE account_id = $1`,
		accountID,
	)
	p, err := scanProfile(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// AdvanceProfileSchedule moves the profile's rolling schedule forward
// after a completed generation: bumps the generation counter, sets the
// next generation date, and clears the one-week goal fields.
func (db *DB) AdvanceProfileSchedule(ctx context.Context, profileID uuid.UUID, nextGeneration time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE content_profiles
		 SET generation_count = generation_count + 1,
		     next_generation_date = $1,
		     weekly_goal = NULL,
		     goal_context = NULL,
		     awaiting_goal_input = FALSE,
		     updated_at = NOW()
		 WHERE id = $2`,
		nextGeneration, profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance profile schedule: %w", err)
	}
	return nil
}

// SetAwaitingGoalInput flags the profile as waiting for the user to pick
// next week's goal. The weekly reminder sets it; generation clears it.
func (db *DB) SetAwaitingGoalInput(ctx context.Context, profileID uuid.UUID, awaiting bool) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE content_profiles SET awaiting_goal_input = $1, updated_at = NOW() WHERE id = $2`,
		awaiting, profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to set awaiting_goal_input: %w", err)
	}
	return nil
}

// SetWeeklyGoal records the goal and free-text context the user chose
// for the upcoming week.
func (db *DB) SetWeeklyGoal(ctx context.Context, profileID uuid.UUID, goal, goalContext string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE content_profiles
		 SET weekly_goal = $1, goal_context = $2, goal_set_at = NOW(),
		     awaiting_goal_input = FALSE, updated_at = NOW()
		 WHERE id = $3`,
		goal, goalContext, profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to set weekly goal: %w", err)
	}
	return nil
}

// ListProfilesDueForReminder returns profiles whose next generation date
// is due, overdue, or arriving before until, excluding those already
// awaiting goal input. Overdue profiles stay eligible so a missed cron
// sweep does not silence them; awaiting_goal_input and the schedule
// advance prevent duplicates. Used by the weekly reminder cron.
func (db *DB) ListProfilesDueForReminder(ctx context.Context, until time.Time) ([]types.Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM content_profiles
		 WHERE next_generation_date <= $1
		   AND awaiting_goal_input = FALSE`,
		until,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles due for reminder: %w", err)
	}
	defer rows.Close()

	var profiles []types.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
