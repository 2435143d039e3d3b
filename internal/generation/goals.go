package generation

import (
	"sort"
	"strings"
)

// DefaultGoal is used when the account submits no goal.
const DefaultGoal = "balanced"

// goalDirectives maps each weekly goal to the strategist directive that
// steers the week's schedule.
var goalDirectives = map[string]string{
	"recruiting":  "This week's content should attract strong candidates: showcase the team, engineering culture, interesting problems being solved, and what it is like to work here.",
	"fundraising": "This week's content should build investor confidence: highlight traction, market insight, milestones, and the scale of the opportunity.",
	"sales":       "This week's content should drive customer interest: lead with customer outcomes, concrete use cases, and the pain the product removes.",
	"credibility": "This week's content should establish authority: share hard-won lessons, strong opinions backed by experience, and deep domain expertise.",
	"growth":      "This week's content should grow the audience: favor broadly relatable takes, engaging hooks, and shareable insights over niche depth.",
	"balanced":    "This week's content should balance audience growth, credibility, and customer interest without over-indexing on any one.",
}

// ValidGoal reports whether the goal is on the allow-list.
// The empty string is valid and means the default goal.
func ValidGoal(goal string) bool {
	if goal == "" {
		return true
	}
	_, ok := goalDirectives[goal]
	return ok
}

// Goals returns the allow-list in stable order, for error messages.
func Goals() []string {
	out := make([]string, 0, len(goalDirectives))
	for g := range goalDirectives {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// BuildGoalDirective renders the directive for a goal, appending any
// free-text context the account supplied.
func BuildGoalDirective(goal, goalContext string) string {
	if goal == "" {
		goal = DefaultGoal
	}
	directive := goalDirectives[goal]
	goalContext = strings.TrimSpace(goalContext)
	if goalContext != "" {
		directive += "\n\nTHIS WEEK'S CONTEXT: " + goalContext
	}
	return directive
}
