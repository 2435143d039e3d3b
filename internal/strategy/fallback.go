package strategy

import (
	"fmt"

	"github.com/jonathan/content-pilot/internal/types"
)

// Deterministic weekly layouts, one per platform. Day order and format
// mix reproduce the prompt's hard constraints (X: 7 posts, 3 long-form;
// LinkedIn: 5 posts, 3 long-form) so the fallback satisfies the same
// count invariants as a well-formed model response.
var xLayout = []struct {
	day    string
	format types.PostFormat
	time   string
}{
	{"Monday", types.FormatLongForm, "9:00 AM"},
	{"Tuesday", types.FormatSingle, "12:00 PM"},
	{"Wednesday", types.FormatLongForm, "9:00 AM"},
	{"Thursday", types.FormatSingle, "6:00 PM"},
	{"Friday", types.FormatLongForm, "12:00 PM"},
	{"Saturday", types.FormatSingle, "9:00 AM"},
	{"Sunday", types.FormatSingle, "6:00 PM"},
}

var linkedinLayout = []struct {
	day    string
	format types.PostFormat
	time   string
}{
	{"Monday", types.FormatLongForm, "8:00 AM"},
	{"Tuesday", types.FormatSingle, "10:00 AM"},
	{"Wednesday", types.FormatLongForm, "12:00 PM"},
	{"Thursday", types.FormatSingle, "8:00 AM"},
	{"Friday", types.FormatLongForm, "10:00 AM"},
}

// defaultTopics seeds the rotation when a profile has no topic pillars.
var defaultTopics = []string{
	"Lessons learned building the business",
	"A contrarian take on the industry",
	"How we solve problems for our customers",
	"Behind the scenes of the company",
	"Trends shaping the market",
}

// Fallback builds a deterministic week of schedule slots by cycling the
// profile's topic pillars over fixed per-platform layouts. It is the
// circuit breaker for unparseable strategy responses; it makes no
// network calls and always satisfies the per-platform count invariants.
func Fallback(platforms []types.Platform, profile *types.Profile) []types.ScheduleSlot {
	topics := profile.Topics
	if len(topics) == 0 {
		topics = defaultTopics
	}

	var slots []types.ScheduleSlot
	topicIdx := 0
	nextTopic := func() string {
		t := topics[topicIdx%len(topics)]
		topicIdx++
		return t
	}

	for _, platform := range platforms {
		switch platform {
		case types.PlatformX:
			for _, l := range xLayout {
				slots = append(slots, types.ScheduleSlot{
					Day:      l.day,
					Platform: types.PlatformX,
					Format:   l.format,
					Topic:    nextTopic(),
					Time:     l.time,
				})
			}
		case types.PlatformLinkedIn:
			for _, l := range linkedinLayout {
				slots = append(slots, types.ScheduleSlot{
					Day:      l.day,
					Platform: types.PlatformLinkedIn,
					Format:   l.format,
					Topic:    nextTopic(),
					Time:     l.time,
				})
			}
		}
	}

	return slots
}

// CountByPlatform tallies slots per platform; handy for verifying the
// schedule invariant after generation.
func CountByPlatform(slots []types.ScheduleSlot) map[types.Platform]int {
	counts := make(map[types.Platform]int)
	for _, s := range slots {
		counts[s.Platform]++
	}
	return counts
}

// VerifyCounts checks that a schedule carries exactly the required number
// of posts for every enabled platform.
func VerifyCounts(slots []types.ScheduleSlot, platforms []types.Platform) error {
	counts := CountByPlatform(slots)
	for _, p := range platforms {
		if counts[p] != PostsPerWeek(p) {
			return fmt.Errorf("platform %s has %d posts, want %d", p, counts[p], PostsPerWeek(p))
		}
	}
	return nil
}
