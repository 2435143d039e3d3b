package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pilot/internal/content"
	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/llm"
	"github.com/jonathan/content-pilot/internal/observability"
	"github.com/jonathan/content-pilot/internal/strategy"
	"github.com/jonathan/content-pilot/internal/types"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

type memStore struct {
	profile      *types.Profile
	subscription *types.Subscription
	email        string
	completed    int

	leaseErr      error
	insertErr     error
	leaseID       uuid.UUID
	inserted      []types.Post
	archived      bool
	completedWith []int
	failedWith    string
	advancedTo    time.Time
	notifications []types.Notification

	posts          map[uuid.UUID]*types.Post
	updatedContent map[uuid.UUID]string

	weeklyGoal        string
	weeklyGoalContext string
}

func newMemStore(profile *types.Profile) *memStore {
	return &memStore{
		profile:        profile,
		email:          "owner@acme.com",
		leaseID:        uuid.New(),
		posts:          map[uuid.UUID]*types.Post{},
		updatedContent: map[uuid.UUID]string{},
	}
}

func (s *memStore) GetProfile(ctx context.Context, accountID uuid.UUID) (*types.Profile, error) {
	return s.profile, nil
}

func (s *memStore) GetSubscription(ctx context.Context, accountID uuid.UUID) (*types.Subscription, error) {
	return s.subscription, nil
}

func (s *memStore) GetAccountEmail(ctx context.Context, accountID uuid.UUID) (string, error) {
	return s.email, nil
}

func (s *memStore) AcquireGenerationLease(ctx context.Context, run *types.GenerationRun) (uuid.UUID, error) {
	if s.leaseErr != nil {
		return uuid.Nil, s.leaseErr
	}
	return s.leaseID, nil
}

func (s *memStore) CompleteGeneration(ctx context.Context, id uuid.UUID, x, li int) error {
	s.completedWith = []int{x, li}
	return nil
}

func (s *memStore) FailGeneration(ctx context.Context, id uuid.UUID, message string) error {
	s.failedWith = message
	return nil
}

func (s *memStore) CountCompletedGenerations(ctx context.Context, accountID uuid.UUID) (int, error) {
	return s.completed, nil
}

func (s *memStore) ArchiveStalePosts(ctx context.Context, profileID uuid.UUID) (int64, error) {
	s.archived = true
	return 0, nil
}

func (s *memStore) InsertPosts(ctx context.Context, posts []types.Post) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = posts
	return nil
}

func (s *memStore) GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	return s.posts[postID], nil
}

func (s *memStore) UpdatePostContent(ctx context.Context, postID uuid.UUID, content string, hooks []string, cta *string) error {
	s.updatedContent[postID] = content
	return nil
}

func (s *memStore) AdvanceProfileSchedule(ctx context.Context, profileID uuid.UUID, next time.Time) error {
	s.advancedTo = next
	return nil
}

func (s *memStore) SetWeeklyGoal(ctx context.Context, profileID uuid.UUID, goal, goalContext string) error {
	s.weeklyGoal = goal
	s.weeklyGoalContext = goalContext
	return nil
}

func (s *memStore) InsertNotification(ctx context.Context, n *types.Notification) error {
	s.notifications = append(s.notifications, *n)
	return nil
}

type recordingNotifier struct {
	weekReady int
}

func (n *recordingNotifier) SendWeekReady(ctx context.Context, to string, weekNumber, postCount int) error {
	n.weekReady++
	return nil
}

func xOnlyProfile() *types.Profile {
	return &types.Profile{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Platforms: types.Platforms{X: true},
		Topics:    []string{"engineering", "startups"},
		Role:      "Founder",
	}
}

const scheduleJSON = `{"posts": [
	{"day": "Monday", "platform": "x", "format": "long_form", "topic": "engineering", "time": "9:00 AM"},
	{"day": "Tuesday", "platform": "x", "format": "single", "topic": "startups", "time": "12:00 PM"},
	{"day": "Wednesday", "platform": "x", "format": "long_form", "topic": "engineering", "time": "2:30 PM"},
	{"day": "Thursday", "platform": "x", "format": "single", "topic": "startups", "time": "6:00 PM"},
	{"day": "Friday", "platform": "x", "format": "long_form", "topic": "engineering", "time": "12:00 PM"},
	{"day": "Saturday", "platform": "x", "format": "single", "topic": "startups", "time": "9:00 AM"},
	{"day": "Sunday", "platform": "x", "format": "single", "topic": "engineering", "time": "6:00 PM"}
]}`

const batchJSON = `{"posts": [
	{"index": 0, "content": "Post A", "hooks": ["h"]},
	{"index": 1, "content": "Post B", "hooks": []},
	{"index": 2, "content": "Post C", "hooks": []},
	{"index": 3, "content": "Post D", "hooks": []},
	{"index": 4, "content": "Post E", "hooks": []},
	{"index": 5, "content": "Post F", "hooks": []},
	{"index": 6, "content": "Post G", "hooks": []}
]}`

func testOrchestrator(store Store, scheduleResp, batchResp string, notifier Notifier) *Orchestrator {
	o := NewOrchestrator(
		store,
		strategy.NewGenerator(&fakeClient{response: scheduleResp}),
		content.NewGenerator(&fakeClient{response: batchResp}),
		notifier,
		observability.NewLoggerWithComponent("generation-test"),
	)
	o.now = func() time.Time {
		return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC) // a Monday
	}
	return o
}

func TestStartHappyPath(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	notifier := &recordingNotifier{}
	o := testOrchestrator(store, scheduleJSON, batchJSON, notifier)

	result, err := o.Start(context.Background(), store.profile.AccountID, "sales", "launching v2 this week")
	require.NoError(t, err)

	assert.Equal(t, 1, result.WeekNumber)
	assert.Equal(t, "sales", result.Goal)
	assert.Equal(t, strategy.XPostsPerWeek, result.XPostsCount)
	assert.Equal(t, 0, result.LinkedInPostsCount)
	assert.Len(t, result.PostIDs, strategy.XPostsPerWeek)
	assert.False(t, result.UsedFallback)

	require.Len(t, store.inserted, strategy.XPostsPerWeek)
	assert.Equal(t, "Post A", store.inserted[0].Content)
	assert.Equal(t, types.PostStatusScheduled, store.inserted[0].Status)
	assert.True(t, store.archived, "previous week archived before insert")
	assert.Equal(t, []int{strategy.XPostsPerWeek, 0}, store.completedWith)

	// Rolling schedule advanced a week.
	assert.Equal(t, time.Date(2026, time.June, 8, 12, 0, 0, 0, time.UTC), store.advancedTo)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, "week_ready", store.notifications[0].Type)
	assert.Equal(t, 1, notifier.weekReady)
}

func TestStartNeverSchedulesToday(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	// Reference is a Monday; the Monday slot must land next week.
	_, err := o.Start(context.Background(), store.profile.AccountID, "growth", "")
	require.NoError(t, err)

	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range store.inserted {
		assert.NotEqual(t, now.Format("2006-01-02"), p.ScheduledDate.Format("2006-01-02"),
			"post scheduled on the trigger day")
		assert.True(t, p.ScheduledDate.After(now.Truncate(24*time.Hour)))
	}

	monday := store.inserted[0]
	assert.Equal(t, time.Date(2026, time.June, 8, 9, 0, 0, 0, time.UTC), monday.ScheduledDate)
}

func TestStartInvalidGoal(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), store.profile.AccountID, "world domination", "")
	require.Error(t, err)

	var invalidGoal *InvalidGoalError
	require.ErrorAs(t, err, &invalidGoal)
	assert.Equal(t, "world domination", invalidGoal.Goal)
	assert.Empty(t, store.inserted)
}

func TestStartEmptyGoalDefaultsToBalanced(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	result, err := o.Start(context.Background(), store.profile.AccountID, "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultGoal, result.Goal)
}

func TestStartNoProfile(t *testing.T) {
	store := newMemStore(nil)
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), uuid.New(), "sales", "")
	var profileErr *ProfileRequiredError
	require.ErrorAs(t, err, &profileErr)
}

func TestStartNoPlatformsEnabled(t *testing.T) {
	profile := xOnlyProfile()
	profile.Platforms = types.Platforms{}
	store := newMemStore(profile)
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), profile.AccountID, "sales", "")
	var profileErr *ProfileRequiredError
	require.ErrorAs(t, err, &profileErr)
}

func TestStartSecondWeekRequiresSubscription(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	store.completed = 1
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), store.profile.AccountID, "sales", "")
	var subErr *SubscriptionRequiredError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 2, subErr.WeekNumber)
	assert.NotEmpty(t, store.failedWith, "refused run releases its lease")
}

func TestStartLeaseConflictBeatsSubscriptionGate(t *testing.T) {
	// A duplicate trigger from a lapsed account reports the in-flight
	// run, not the missing subscription.
	store := newMemStore(xOnlyProfile())
	store.completed = 1
	store.leaseErr = &db.GenerationInProgressError{GenerationID: uuid.New()}
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), store.profile.AccountID, "sales", "")
	var inProgress *db.GenerationInProgressError
	require.ErrorAs(t, err, &inProgress)

	var subErr *SubscriptionRequiredError
	assert.False(t, errors.As(err, &subErr))
}

func TestStartTrialingSubscriptionPasses(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	store.completed = 3
	store.subscription = &types.Subscription{Status: "trialing"}
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	result, err := o.Start(context.Background(), store.profile.AccountID, "sales", "")
	require.NoError(t, err)
	assert.Equal(t, 4, result.WeekNumber)
}

func TestStartLeaseConflictPropagates(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	activeID := uuid.New()
	store.leaseErr = &db.GenerationInProgressError{GenerationID: activeID}
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), store.profile.AccountID, "sales", "")
	var inProgress *db.GenerationInProgressError
	require.ErrorAs(t, err, &inProgress)
	assert.Equal(t, activeID, inProgress.GenerationID)
	assert.Empty(t, store.failedWith, "a refused lease is not a failed run")
}

func TestStartFallbackOnUnparseableSchedule(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, "the model rambled instead of answering", batchJSON, nil)

	result, err := o.Start(context.Background(), store.profile.AccountID, "credibility", "")
	require.NoError(t, err)

	assert.True(t, result.UsedFallback)
	assert.Equal(t, strategy.XPostsPerWeek, result.XPostsCount)
	assert.Len(t, store.inserted, strategy.XPostsPerWeek)
}

func TestStartFallbackOnShortSchedule(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	// Valid JSON, valid shape, but only three of the required seven slots.
	short := `{"posts": [
		{"day": "Monday", "platform": "x", "format": "long_form", "topic": "engineering", "time": "9:00 AM"},
		{"day": "Wednesday", "platform": "x", "format": "single", "topic": "startups", "time": "12:00 PM"},
		{"day": "Friday", "platform": "x", "format": "single", "topic": "engineering", "time": "6:00 PM"}
	]}`
	o := testOrchestrator(store, short, batchJSON, nil)

	result, err := o.Start(context.Background(), store.profile.AccountID, "credibility", "")
	require.NoError(t, err)

	assert.True(t, result.UsedFallback, "undercount schedules are discarded")
	assert.Equal(t, strategy.XPostsPerWeek, result.XPostsCount)
	assert.Len(t, store.inserted, strategy.XPostsPerWeek)
}

func TestStartContentFailureStillShipsSentinels(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, scheduleJSON, "no json here either", nil)

	result, err := o.Start(context.Background(), store.profile.AccountID, "sales", "")
	require.NoError(t, err, "content failure does not fail the run")

	require.Len(t, store.inserted, strategy.XPostsPerWeek)
	for _, p := range store.inserted {
		assert.Equal(t, content.FailedContentSentinel, p.Content)
	}
	assert.Len(t, result.PostIDs, strategy.XPostsPerWeek)
}

func TestStartPersistFailureMarksRunFailed(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	store.insertErr = errors.New("disk full")
	o := testOrchestrator(store, scheduleJSON, batchJSON, nil)

	_, err := o.Start(context.Background(), store.profile.AccountID, "sales", "")
	require.Error(t, err)
	assert.Contains(t, store.failedWith, "disk full")
}

func TestGenerateSinglePost(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	post := &types.Post{
		ID:        uuid.New(),
		ProfileID: store.profile.ID,
		Platform:  types.PlatformX,
		Format:    types.FormatSingle,
		Topic:     "pricing",
		Status:    types.PostStatusDraft,
	}
	store.posts[post.ID] = post

	o := testOrchestrator(store, "", `{"content": "Filled in", "hooks": ["h"]}`, nil)

	text, err := o.GenerateSinglePost(context.Background(), store.profile.AccountID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Filled in", text)
	assert.Equal(t, "Filled in", store.updatedContent[post.ID])
}

func TestGenerateSinglePostOwnership(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	foreign := &types.Post{
		ID:        uuid.New(),
		ProfileID: uuid.New(), // someone else's profile
		Platform:  types.PlatformX,
	}
	store.posts[foreign.ID] = foreign

	o := testOrchestrator(store, "", `{"content": "x"}`, nil)

	_, err := o.GenerateSinglePost(context.Background(), store.profile.AccountID, foreign.ID)
	var notFound *PostNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, store.updatedContent)
}

func TestSetWeeklyGoal(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, "", "", nil)

	err := o.SetWeeklyGoal(context.Background(), store.profile.AccountID, "recruiting", "two open roles")
	require.NoError(t, err)
	assert.Equal(t, "recruiting", store.weeklyGoal)
	assert.Equal(t, "two open roles", store.weeklyGoalContext)
}

func TestSetWeeklyGoalValidation(t *testing.T) {
	store := newMemStore(xOnlyProfile())
	o := testOrchestrator(store, "", "", nil)

	err := o.SetWeeklyGoal(context.Background(), store.profile.AccountID, "virality", "")
	var invalid *InvalidGoalError
	require.ErrorAs(t, err, &invalid)

	// empty goal resolves to the default
	require.NoError(t, o.SetWeeklyGoal(context.Background(), store.profile.AccountID, "", ""))
	assert.Equal(t, DefaultGoal, store.weeklyGoal)
}

func TestBuildGoalDirective(t *testing.T) {
	d := BuildGoalDirective("recruiting", "")
	assert.Contains(t, d, "candidates")
	assert.NotContains(t, d, "THIS WEEK'S CONTEXT")

	d = BuildGoalDirective("sales", "v2 ships Tuesday")
	assert.Contains(t, d, "THIS WEEK'S CONTEXT: v2 ships Tuesday")

	d = BuildGoalDirective("", "")
	assert.Equal(t, BuildGoalDirective(DefaultGoal, ""), d)
}

func TestValidGoal(t *testing.T) {
	for _, g := range []string{"", "recruiting", "fundraising", "sales", "credibility", "growth", "balanced"} {
		assert.True(t, ValidGoal(g), g)
	}
	assert.False(t, ValidGoal("virality"))
	assert.False(t, ValidGoal("Sales"), "goals are case sensitive")
}
