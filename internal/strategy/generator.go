// Package strategy produces the constrained weekly post schedule. One
// completion call yields the full week; parsing is defensive and a
// deterministic local fallback covers total parse failure.
package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/content-pilot/internal/llm"
	"github.com/jonathan/content-pilot/internal/prompts"
	"github.com/jonathan/content-pilot/internal/schemas"
	"github.com/jonathan/content-pilot/internal/types"
)

// Hard per-platform schedule constraints. The prompt states these as
// non-negotiable and the fallback generator reproduces them exactly.
const (
	XPostsPerWeek        = 7
	LinkedInPostsPerWeek = 5
)

// PostsPerWeek returns the required post count for a platform.
func PostsPerWeek(p types.Platform) int {
	if p == types.PlatformX {
		return XPostsPerWeek
	}
	return LinkedInPostsPerWeek
}

// Generator composes the strategy prompt and turns one model completion
// into a slice of schedule slots.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a strategy generator backed by the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// scheduleResponse is the wire shape of the model's answer.
type scheduleResponse struct {
	Posts []struct {
		Day      string `json:"day"`
		Platform string `json:"platform"`
		Format   string `json:"format"`
		Topic    string `json:"topic"`
		Time     string `json:"time"`
	} `json:"posts"`
}

// Generate requests a full week's schedule for the enabled platforms.
// Returns *ParseError when the response cannot be turned into valid
// slots; the caller decides whether to use the Fallback schedule.
func (g *Generator) Generate(ctx context.Context, platforms []types.Platform, profile *types.Profile) ([]types.ScheduleSlot, error) {
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platforms enabled")
	}

	prompt := buildPrompt(platforms, profile)

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("strategy completion failed: %w", err)
	}

	slots, err := parseSchedule(raw)
	if err != nil {
		return nil, err
	}
	// A schema-valid response can still carry the wrong number of slots.
	if err := VerifyCounts(slots, platforms); err != nil {
		return nil, &ParseError{Reason: err.Error(), Raw: snippet(raw)}
	}
	return slots, nil
}

func buildPrompt(platforms []types.Platform, profile *types.Profile) string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	template := prompts.MustGet("strategy_schedule")
	return prompts.Format(template, map[string]string{
		"Industry":            profile.Industry,
		"ContentGoal":         profile.ContentGoal,
		"Topics":              strings.Join(profile.Topics, ", "),
		"Platforms":           strings.Join(names, ", "),
		"Role":                profile.Role,
		"CompanyName":         profile.CompanyName,
		"BusinessDescription": profile.BusinessDescription,
		"Expertise":           profile.Expertise,
	})
}

// parseSchedule parses the model response: fence-strip, direct parse,
// then first balanced {...} block, then schema validation.
func parseSchedule(raw string) ([]types.ScheduleSlot, error) {
	text := llm.CleanJSONBlock(raw)

	candidate := text
	if err := schemas.Validate(schemas.WeeklySchedule, []byte(candidate)); err != nil {
		extracted := llm.ExtractJSONObject(text)
		if extracted == "" {
			return nil, &ParseError{Reason: "no JSON object in response", Raw: snippet(raw)}
		}
		if err := schemas.Validate(schemas.WeeklySchedule, []byte(extracted)); err != nil {
			return nil, &ParseError{Reason: err.Error(), Raw: snippet(raw)}
		}
		candidate = extracted
	}

	var resp scheduleResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return nil, &ParseError{Reason: err.Error(), Raw: snippet(raw)}
	}

	slots := make([]types.ScheduleSlot, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		slots = append(slots, types.ScheduleSlot{
			Day:      p.Day,
			Platform: normalizePlatform(p.Platform),
			Format:   normalizeFormat(p.Format),
			Topic:    p.Topic,
			Time:     p.Time,
		})
	}
	return slots, nil
}

// normalizeFormat maps minor model spelling variations onto the allowed
// formats, defaulting to single.
func normalizeFormat(s string) types.PostFormat {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")

	f := types.PostFormat(s)
	if !f.Valid() || f == types.FormatThread {
		return types.FormatSingle
	}
	return f
}

func normalizePlatform(s string) types.Platform {
	p := types.Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return types.PlatformLinkedIn
	}
	return p
}

func snippet(s string) string {
	const max = 500
	if len(s) > max {
		return s[:max]
	}
	return s
}
