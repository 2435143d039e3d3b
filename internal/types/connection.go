package types

import (
	"time"

	"github.com/google/uuid"
)

// SocialConnection is the per-account, per-platform OAuth credential used
// when publishing. The pipeline only ever reads these.
type SocialConnection struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Platform    Platform  `json:"platform"`
	AccessToken string    `json:"-"`
	// ProfileID is the platform-side member id (LinkedIn URN fragment,
	// X user id). Required by the LinkedIn share API.
	ProfileID string `json:"profile_id"`
}

// Subscription is the billing state for an account. Billing itself is
// handled elsewhere; the pipeline only asks whether it is active.
type Subscription struct {
	AccountID uuid.UUID  `json:"account_id"`
	Status    string     `json:"status"`
	TrialEnd  *time.Time `json:"trial_end,omitempty"`
}

// Active reports whether the subscription entitles the account to
// generate content beyond the trial week.
func (s *Subscription) Active() bool {
	if s == nil {
		return false
	}
	return s.Status == "active" || s.Status == "trialing"
}

// Notification is an in-app notification record.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActionURL string    `json:"action_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
