package generation

import (
	"fmt"
	"strings"
)

// InvalidGoalError reports a goal outside the allow-list.
type InvalidGoalError struct {
	Goal string
}

func (e *InvalidGoalError) Error() string {
	return fmt.Sprintf("invalid goal %q (valid: %s)", e.Goal, strings.Join(Goals(), ", "))
}

// ProfileRequiredError reports that the account has not finished
// onboarding: no content profile, or no platform switched on.
type ProfileRequiredError struct {
	Reason string
}

func (e *ProfileRequiredError) Error() string {
	return "profile required: " + e.Reason
}

// SubscriptionRequiredError reports that the requested week is past the
// free first week and the account holds no active subscription.
type SubscriptionRequiredError struct {
	WeekNumber int
}

func (e *SubscriptionRequiredError) Error() string {
	return fmt.Sprintf("week %d requires an active subscription", e.WeekNumber)
}

// PostNotFoundError reports a per-post generation request against a
// post that does not exist or is not owned by the caller.
type PostNotFoundError struct {
	PostID string
}

func (e *PostNotFoundError) Error() string {
	return "post not found: " + e.PostID
}
