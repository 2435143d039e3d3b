package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pilot/internal/llm"
	"github.com/jonathan/content-pilot/internal/types"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func testProfile() *types.Profile {
	return &types.Profile{
		Role:                "Founder",
		CompanyName:         "Acme",
		BusinessDescription: "Developer tooling",
		Expertise:           "Distributed systems",
		Tone:                types.Tone{Boldness: "bold", Style: "educational"},
	}
}

func testSlots(n int) []types.ScheduleSlot {
	slots := make([]types.ScheduleSlot, n)
	for i := range slots {
		slots[i] = types.ScheduleSlot{
			Day:      "monday",
			Platform: types.PlatformX,
			Format:   types.FormatSingle,
			Topic:    "Shipping fast",
		}
	}
	return slots
}

func TestGenerateBatchAllSlotsReturned(t *testing.T) {
	fake := &fakeClient{response: `{"posts": [
		{"index": 0, "content": "First post", "hooks": ["h1"], "cta": "Follow"},
		{"index": 1, "content": "Second post", "hooks": [], "cta": null},
		{"index": 2, "content": "Third post", "hooks": ["h2", "h3"]}
	]}`}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(3), testProfile())
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "First post", posts[0].Content)
	require.NotNil(t, posts[0].CTA)
	assert.Equal(t, "Follow", *posts[0].CTA)
	assert.Equal(t, "Second post", posts[1].Content)
	assert.Nil(t, posts[1].CTA)
	assert.Equal(t, []string{"h2", "h3"}, posts[2].Hooks)
}

func TestGenerateBatchPartialResponseGetsSentinels(t *testing.T) {
	// Model answered 2 of 3 slots; the missing one must still exist.
	fake := &fakeClient{response: `{"posts": [
		{"index": 0, "content": "First"},
		{"index": 2, "content": "Third"}
	]}`}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(3), testProfile())
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "First", posts[0].Content)
	assert.Equal(t, FailedContentSentinel, posts[1].Content)
	assert.Equal(t, "Third", posts[2].Content)
}

func TestGenerateBatchPositionalFallbackWithoutIndex(t *testing.T) {
	fake := &fakeClient{response: `{"posts": [
		{"content": "A"},
		{"content": "B"}
	]}`}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(2), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "A", posts[0].Content)
	assert.Equal(t, "B", posts[1].Content)
}

func TestGenerateBatchIgnoresOutOfRangeAndEmpty(t *testing.T) {
	fake := &fakeClient{response: `{"posts": [
		{"index": 7, "content": "lost"},
		{"index": 0, "content": "   "},
		{"index": 1, "content": "kept"}
	]}`}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(2), testProfile())
	require.NoError(t, err)
	assert.Equal(t, FailedContentSentinel, posts[0].Content)
	assert.Equal(t, "kept", posts[1].Content)
}

func TestGenerateBatchFencedResponse(t *testing.T) {
	fake := &fakeClient{response: "```json\n{\"posts\": [{\"index\": 0, \"content\": \"Fenced\"}]}\n```"}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(1), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "Fenced", posts[0].Content)
}

func TestGenerateBatchUnparseableFillsSentinels(t *testing.T) {
	fake := &fakeClient{response: "I could not produce the posts, sorry."}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(3), testProfile())
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.Equal(t, FailedContentSentinel, p.Content)
	}
}

func TestGenerateBatchCompletionErrorFillsSentinels(t *testing.T) {
	fake := &fakeClient{err: errors.New("upstream unavailable")}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), testSlots(2), testProfile())
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr), "transport errors are not parse errors")
	for _, p := range posts {
		assert.Equal(t, FailedContentSentinel, p.Content)
	}
}

func TestGenerateBatchEmptySlots(t *testing.T) {
	fake := &fakeClient{}
	g := NewGenerator(fake)

	posts, err := g.GenerateBatch(context.Background(), nil, testProfile())
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Empty(t, fake.lastPrompt, "no completion call for empty schedule")
}

func TestGenerateBatchPromptContents(t *testing.T) {
	fake := &fakeClient{response: `{"posts": [{"index": 0, "content": "x"}]}`}
	g := NewGenerator(fake)

	slots := []types.ScheduleSlot{{
		Day:      "friday",
		Platform: types.PlatformLinkedIn,
		Format:   types.FormatLongForm,
		Topic:    "Hiring lessons",
	}}
	_, err := g.GenerateBatch(context.Background(), slots, testProfile())
	require.NoError(t, err)

	assert.Contains(t, fake.lastPrompt, "platform=linkedin")
	assert.Contains(t, fake.lastPrompt, "format=long_form")
	assert.Contains(t, fake.lastPrompt, `"Hiring lessons"`)
	assert.Contains(t, fake.lastPrompt, "Acme")
	assert.Contains(t, fake.lastPrompt, "bold / educational")
}

func TestGenerateOne(t *testing.T) {
	fake := &fakeClient{response: `{"content": "Solo post", "hooks": ["h"], "cta": "Reply"}`}
	g := NewGenerator(fake)

	slot := types.ScheduleSlot{Platform: types.PlatformX, Format: types.FormatSingle, Topic: "Pricing"}
	post, err := g.GenerateOne(context.Background(), slot, testProfile())
	require.NoError(t, err)
	assert.Equal(t, "Solo post", post.Content)
	require.NotNil(t, post.CTA)
	assert.Equal(t, "Reply", *post.CTA)
	assert.True(t, strings.Contains(fake.lastPrompt, "Pricing"))
}

func TestGenerateOneUnparseable(t *testing.T) {
	fake := &fakeClient{response: "not json"}
	g := NewGenerator(fake)

	slot := types.ScheduleSlot{Platform: types.PlatformX, Format: types.FormatSingle, Topic: "Pricing"}
	post, err := g.GenerateOne(context.Background(), slot, testProfile())
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, FailedContentSentinel, post.Content)
}
