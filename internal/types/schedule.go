package types

// ScheduleSlot is one unfilled calendar slot produced by the strategy
// generator. It is never persisted directly; once filled with content and
// resolved to an absolute date it becomes a Post.
type ScheduleSlot struct {
	Day      string     `json:"day"`      // weekday name, e.g. "Monday"
	Platform Platform   `json:"platform"` // "x" or "linkedin"
	Format   PostFormat `json:"format"`
	Topic    string     `json:"topic"`
	Time     string     `json:"time"` // "h:mm AM/PM"
}

// GeneratedPost carries the written content for one schedule slot.
type GeneratedPost struct {
	Content string   `json:"content"`
	Hooks   []string `json:"hooks"`
	CTA     *string  `json:"cta"`
}
