package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus is the state of a weekly generation run.
type GenerationStatus string

// Generation run states
const (
	GenerationStatusGenerating GenerationStatus = "generating"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// StaleRunThreshold is how long a run may sit in "generating" before it is
// presumed abandoned and safe to reclaim.
const StaleRunThreshold = 10 * time.Minute

// GenerationRun records one end-to-end attempt to produce a week of posts
// for an account. At most one run per account may be in the generating
// state at any time.
type GenerationRun struct {
	ID                 uuid.UUID        `json:"id"`
	AccountID          uuid.UUID        `json:"account_id"`
	WeekNumber         int              `json:"week_number"`
	WeekStartDate      time.Time        `json:"week_start_date"`
	WeekEndDate        time.Time        `json:"week_end_date"`
	Status             GenerationStatus `json:"status"`
	XPostsCount        int              `json:"x_posts_count"`
	LinkedInPostsCount int              `json:"linkedin_posts_count"`
	ErrorMessage       string           `json:"error_message,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Stale reports whether the run has been generating for longer than the
// staleness threshold as of now.
func (r *GenerationRun) Stale(now time.Time) bool {
	return r.Status == GenerationStatusGenerating &&
		now.Sub(r.CreatedAt) > StaleRunThreshold
}
