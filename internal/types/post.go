package types

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the lifecycle state of a persisted post.
// Transitions only move forward: draft -> scheduled -> {posted, failed,
// skipped}. Archived is a terminal manual transition applied when a new
// week replaces an old one. A posted post is never overwritten.
type PostStatus string

// Post lifecycle states
const (
	PostStatusDraft      PostStatus = "draft"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusPublishing PostStatus = "publishing"
	PostStatusPosted     PostStatus = "posted"
	PostStatusFailed     PostStatus = "failed"
	PostStatusSkipped    PostStatus = "skipped"
	PostStatusArchived   PostStatus = "archived"
)

// Post is a persisted, schedulable unit of content.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	ProfileID     uuid.UUID  `json:"profile_id"`
	GenerationID  uuid.UUID  `json:"generation_id"`
	Platform      Platform   `json:"platform"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Content       string     `json:"content"`
	Hooks         []string   `json:"hooks"`
	SelectedHook  string     `json:"selected_hook,omitempty"`
	CTA           *string    `json:"cta,omitempty"`
	Format        PostFormat `json:"format"`
	Topic         string     `json:"topic,omitempty"`
	Status        PostStatus `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	// PlatformPostID is the id the platform assigned on publish (tweet
	// id of the first tweet for threads, ugcPost URN for LinkedIn).
	PlatformPostID string     `json:"platform_post_id,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
}
