// Package content fills schedule slots with platform-appropriate written
// posts. The weekly flow uses one batched completion for the entire
// schedule; a partial answer is preferred over failing the whole batch.
package content

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

// FailedContentSentinel marks a post whose content could not be
// generated. The post is still created so the user can edit it by hand.
const FailedContentSentinel = "Generation failed. Please edit."

// ParseError indicates the batch response was unusable in its entirety.
// The slots it covered have already been filled with the sentinel.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse content response: %s", e.Reason)
}

// Generator writes post content via the injected completion client.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a content generator backed by the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// batchResponse is the wire shape of the batched completion answer.
type batchResponse struct {
	Posts []struct {
		Index   *int     `json:"index"`
		Content string   `json:"content"`
		Hooks   []string `json:"hooks"`
		CTA     *string  `json:"cta"`
	} `json:"posts"`
}

// GenerateBatch fills every slot with one batched completion call. The
// returned slice is always aligned positionally with slots; entries the
// model skipped or garbled carry the failure sentinel. The error is
// non-nil only when the whole response was unusable, and even then the
// returned posts are complete (all sentinels) so the caller may keep
// them.
func (g *Generator) GenerateBatch(ctx context.Context, slots []types.ScheduleSlot, profile *types.Profile) ([]types.GeneratedPost, error) {
	posts := make([]types.GeneratedPost, len(slots))
	for i := range posts {
		posts[i] = sentinelPost()
	}
	if len(slots) == 0 {
		return posts, nil
	}

	prompt := buildBatchPrompt(slots, profile)

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return posts, fmt.Errorf("content completion failed: %w", err)
	}

	resp, err := parseBatch(raw)
	if err != nil {
		return posts, err
	}

	for i, p := range resp.Posts {
		idx := i
		if p.Index != nil {
			idx = *p.Index
		}
		if idx < 0 || idx >= len(slots) {
			continue
		}
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		posts[idx] = types.GeneratedPost{
			Content: p.Content,
			Hooks:   p.Hooks,
			CTA:     p.CTA,
		}
	}

	return posts, nil
}

// GenerateOne writes content for a single slot; used by the per-post
// generation endpoint where each HTTP round-trip stays short.
func (g *Generator) GenerateOne(ctx context.Context, slot types.ScheduleSlot, profile *types.Profile) (types.GeneratedPost, error) {
	prompt := buildSinglePrompt(slot, profile)

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return sentinelPost(), fmt.Errorf("content completion failed: %w", err)
	}

	text := llm.CleanJSONBlock(raw)
	candidate := text
	if err := schemas.Validate(schemas.GeneratedPost, []byte(candidate)); err != nil {
		extracted := llm.ExtractJSONObject(text)
		if extracted == "" {
			return sentinelPost(), &ParseError{Reason: "no JSON object in response"}
		}
		if err := schemas.Validate(schemas.GeneratedPost, []byte(extracted)); err != nil {
			return sentinelPost(), &ParseError{Reason: err.Error()}
		}
		candidate = extracted
	}

	var post types.GeneratedPost
	if err := json.Unmarshal([]byte(candidate), &post); err != nil {
		return sentinelPost(), &ParseError{Reason: err.Error()}
	}
	return post, nil
}

func parseBatch(raw string) (*batchResponse, error) {
	text := llm.CleanJSONBlock(raw)

	candidate := text
	if err := schemas.Validate(schemas.GeneratedPosts, []byte(candidate)); err != nil {
		extracted := llm.ExtractJSONObject(text)
		if extracted == "" {
			return nil, &ParseError{Reason: "no JSON object in response"}
		}
		if err := schemas.Validate(schemas.GeneratedPosts, []byte(extracted)); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
		candidate = extracted
	}

	var resp batchResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return &resp, nil
}

func sentinelPost() types.GeneratedPost {
	return types.GeneratedPost{Content: FailedContentSentinel, Hooks: []string{}}
}

func buildBatchPrompt(slots []types.ScheduleSlot, profile *types.Profile) string {
	var sb strings.Builder
	for i, s := range slots {
		sb.WriteString(fmt.Sprintf("%d. platform=%s format=%s topic=%q\n", i, s.Platform, s.Format, s.Topic))
	}

	template := prompts.MustGet("post_content_batch")
	return prompts.Format(template, map[string]string{
		"Role":                profile.Role,
		"CompanyName":         profile.CompanyName,
		"BusinessDescription": profile.BusinessDescription,
		"Expertise":           profile.Expertise,
		"Tone":                toneDirective(profile.Tone),
		"Slots":               sb.String(),
	})
}

func buildSinglePrompt(slot types.ScheduleSlot, profile *types.Profile) string {
	template := prompts.MustGet("post_content_single")
	return prompts.Format(template, map[string]string{
		"PlatformName":        platformName(slot.Platform),
		"Platform":            string(slot.Platform),
		"PlatformConstraints": platformConstraints(slot.Platform),
		"Topic":               slot.Topic,
		"Format":              string(slot.Format),
		"Role":                profile.Role,
		"CompanyName":         profile.CompanyName,
		"BusinessDescription": profile.BusinessDescription,
		"Expertise":           profile.Expertise,
		"Tone":                toneDirective(profile.Tone),
	})
}

func platformName(p types.Platform) string {
	if p == types.PlatformLinkedIn {
		return "LinkedIn"
	}
	return "X (Twitter)"
}

// platformConstraints states the per-platform character ceilings the
// prompt enforces.
func platformConstraints(p types.Platform) string {
	if p == types.PlatformLinkedIn {
		return "- Professional formatting\n- 800-1200 chars"
	}
	return "- Max 280 chars\n- No Hashtags"
}

func toneDirective(t types.Tone) string {
	boldness := t.Boldness
	if boldness == "" {
		boldness = "bold"
	}
	style := t.Style
	if style == "" {
		style = "educational"
	}
	return boldness + " / " + style
}
