package types

import (
	"time"

	"github.com/google/uuid"
)

// Platforms holds the per-platform enablement flags on a profile.
type Platforms struct {
	X        bool `json:"x"`
	LinkedIn bool `json:"linkedin"`
}

// Enabled returns the list of platforms switched on for the profile,
// in a stable order.
func (p Platforms) Enabled() []Platform {
	var out []Platform
	if p.X {
		out = append(out, PlatformX)
	}
	if p.LinkedIn {
		out = append(out, PlatformLinkedIn)
	}
	return out
}

// Tone captures the writing-voice preferences collected during onboarding.
type Tone struct {
	Formality string `json:"formality"`
	Boldness  string `json:"boldness"`
	Style     string `json:"style"`
	Approach  string `json:"approach"`
}

// Profile is the per-account content profile. It owns everything the
// generators need to know about the business and its audience, plus the
// rolling-schedule fields the pipeline mutates on every completed run.
type Profile struct {
	ID                  uuid.UUID  `json:"id"`
	AccountID           uuid.UUID  `json:"account_id"`
	Platforms           Platforms  `json:"platforms"`
	Industry            string     `json:"industry"`
	TargetAudience      string     `json:"target_audience"`
	ContentGoal         string     `json:"content_goal"`
	Topics              []string   `json:"topics"`
	Tone                Tone       `json:"tone"`
	Role                string     `json:"role"`
	CompanyName         string     `json:"company_name"`
	BusinessDescription string     `json:"business_description"`
	Expertise           string     `json:"expertise"`
	AutoPublish         bool       `json:"auto_publish"`
	Timezone            string     `json:"timezone"`
	WeeklyGoal          string     `json:"weekly_goal,omitempty"`
	GoalContext         string     `json:"goal_context,omitempty"`
	GoalSetAt           *time.Time `json:"goal_set_at,omitempty"`
	AwaitingGoalInput   bool       `json:"awaiting_goal_input"`
	NextGenerationDate  *time.Time `json:"next_generation_date,omitempty"`
	GenerationCount     int        `json:"generation_count"`
}
