// Package generation orchestrates a weekly content run end to end:
// lease the per-account run slot, plan the schedule, fill the content,
// resolve concrete dates, persist the week, and advance the profile's
// rolling schedule.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/content-pilot/internal/content"
	"github.com/jonathan/content-pilot/internal/notify"
	"github.com/jonathan/content-pilot/internal/schedule"
	"github.com/jonathan/content-pilot/internal/strategy"
	"github.com/jonathan/content-pilot/internal/types"
)

// Store is the persistence surface the orchestrator needs.
type Store interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*types.Profile, error)
	GetSubscription(ctx context.Context, accountID uuid.UUID) (*types.Subscription, error)
	GetAccountEmail(ctx context.Context, accountID uuid.UUID) (string, error)

	AcquireGenerationLease(ctx context.Context, run *types.GenerationRun) (uuid.UUID, error)
	CompleteGeneration(ctx context.Context, generationID uuid.UUID, xCount, linkedinCount int) error
	FailGeneration(ctx context.Context, generationID uuid.UUID, message string) error
	CountCompletedGenerations(ctx context.Context, accountID uuid.UUID) (int, error)

	ArchiveStalePosts(ctx context.Context, profileID uuid.UUID) (int64, error)
	InsertPosts(ctx context.Context, posts []types.Post) error
	GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error)
	UpdatePostContent(ctx context.Context, postID uuid.UUID, content string, hooks []string, cta *string) error

	AdvanceProfileSchedule(ctx context.Context, profileID uuid.UUID, nextGeneration time.Time) error
	SetWeeklyGoal(ctx context.Context, profileID uuid.UUID, goal, goalContext string) error
	InsertNotification(ctx context.Context, n *types.Notification) error
}

// Notifier is the messaging surface; satisfied by notify.Notifier.
type Notifier interface {
	SendWeekReady(ctx context.Context, to string, weekNumber, postCount int) error
}

// Result summarizes a completed weekly run.
type Result struct {
	GenerationID       uuid.UUID   `json:"generationId"`
	WeekNumber         int         `json:"weekNumber"`
	Goal               string      `json:"goal"`
	XPostsCount        int         `json:"xPostsCount"`
	LinkedInPostsCount int         `json:"linkedinPostsCount"`
	PostIDs            []uuid.UUID `json:"postIds"`
	UsedFallback       bool        `json:"-"`
}

// Orchestrator drives weekly and per-post generation.
type Orchestrator struct {
	store    Store
	strategy *strategy.Generator
	content  *content.Generator
	notifier Notifier
	log      *logrus.Entry
	now      func() time.Time
}

// NewOrchestrator wires the orchestrator. notifier may be nil when
// email is not configured; notification failures never fail a run.
func NewOrchestrator(store Store, strategyGen *strategy.Generator, contentGen *content.Generator, notifier Notifier, log *logrus.Entry) *Orchestrator {
	return &Orchestrator{
		store:    store,
		strategy: strategyGen,
		content:  contentGen,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Start runs one weekly generation for the account. It is idempotent
// under concurrent triggers: only one caller wins the run lease, the
// rest get db.GenerationInProgressError.
func (o *Orchestrator) Start(ctx context.Context, accountID uuid.UUID, goal, goalContext string) (*Result, error) {
	if !ValidGoal(goal) {
		return nil, &InvalidGoalError{Goal: goal}
	}
	if goal == "" {
		goal = DefaultGoal
	}

	profile, err := o.store.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &ProfileRequiredError{Reason: "no content profile for account"}
	}
	platforms := profile.Platforms.Enabled()
	if len(platforms) == 0 {
		return nil, &ProfileRequiredError{Reason: "no platforms enabled"}
	}

	completed, err := o.store.CountCompletedGenerations(ctx, accountID)
	if err != nil {
		return nil, err
	}
	weekNumber := completed + 1

	// The lease comes before the payment gate: a concurrent duplicate
	// answers 409 regardless of subscription state.
	now := o.now().UTC()
	weekStart := now.Truncate(24 * time.Hour)
	generationID, err := o.store.AcquireGenerationLease(ctx, &types.GenerationRun{
		AccountID:     accountID,
		WeekNumber:    weekNumber,
		WeekStartDate: weekStart,
		WeekEndDate:   weekStart.AddDate(0, 0, 6),
	})
	if err != nil {
		return nil, err
	}

	// First week is free; everything after needs a live subscription.
	// The freshly acquired lease is released so a later paid trigger is
	// not stuck behind the staleness window.
	if weekNumber >= 2 {
		sub, err := o.store.GetSubscription(ctx, accountID)
		if err == nil && !sub.Active() {
			err = &SubscriptionRequiredError{WeekNumber: weekNumber}
		}
		if err != nil {
			if failErr := o.store.FailGeneration(ctx, generationID, err.Error()); failErr != nil {
				o.log.WithError(failErr).Error("failed to mark generation failed")
			}
			return nil, err
		}
	}

	log := o.log.WithFields(logrus.Fields{
		"account_id":    accountID,
		"generation_id": generationID,
		"week_number":   weekNumber,
		"goal":          goal,
	})
	log.Info("generation started")

	result, err := o.generateWeek(ctx, log, profile, generationID, weekNumber, goal, goalContext, now)
	if err != nil {
		log.WithError(err).Error("generation failed")
		if failErr := o.store.FailGeneration(ctx, generationID, err.Error()); failErr != nil {
			log.WithError(failErr).Error("failed to mark generation failed")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"x_posts":        result.XPostsCount,
		"linkedin_posts": result.LinkedInPostsCount,
		"used_fallback":  result.UsedFallback,
	}).Info("generation completed")
	return result, nil
}

// generateWeek is the post-lease portion; any error here fails the run.
func (o *Orchestrator) generateWeek(ctx context.Context, log *logrus.Entry, profile *types.Profile, generationID uuid.UUID, weekNumber int, goal, goalContext string, now time.Time) (*Result, error) {
	platforms := profile.Platforms.Enabled()

	// Steer the strategist with this week's goal instead of the
	// profile's standing content goal.
	steered := *profile
	steered.ContentGoal = BuildGoalDirective(goal, goalContext)

	usedFallback := false
	slots, err := o.strategy.Generate(ctx, platforms, &steered)
	if err != nil {
		var parseErr *strategy.ParseError
		if !errors.As(err, &parseErr) {
			return nil, fmt.Errorf("schedule generation failed: %w", err)
		}
		log.WithError(parseErr).Warn("schedule unparseable, using fallback schedule")
		slots = strategy.Fallback(platforms, profile)
		usedFallback = true
	}

	generated, err := o.content.GenerateBatch(ctx, slots, &steered)
	if err != nil {
		// Sentinel posts still ship; the user edits them by hand.
		log.WithError(err).Warn("content generation incomplete")
	}

	if _, err := o.store.ArchiveStalePosts(ctx, profile.ID); err != nil {
		return nil, err
	}

	posts := make([]types.Post, len(slots))
	for i, slot := range slots {
		posts[i] = types.Post{
			ID:            uuid.New(),
			ProfileID:     profile.ID,
			GenerationID:  generationID,
			Platform:      slot.Platform,
			ScheduledDate: schedule.Resolve(slot.Day, slot.Time, now),
			Content:       generated[i].Content,
			Hooks:         generated[i].Hooks,
			CTA:           generated[i].CTA,
			Format:        slot.Format,
			Topic:         slot.Topic,
			Status:        types.PostStatusScheduled,
		}
	}
	if err := o.store.InsertPosts(ctx, posts); err != nil {
		return nil, err
	}

	counts := strategy.CountByPlatform(slots)
	if err := o.store.CompleteGeneration(ctx, generationID, counts[types.PlatformX], counts[types.PlatformLinkedIn]); err != nil {
		return nil, err
	}
	if err := o.store.AdvanceProfileSchedule(ctx, profile.ID, now.AddDate(0, 0, 7)); err != nil {
		return nil, err
	}

	o.notifyWeekReady(ctx, log, profile.AccountID, weekNumber, len(posts))

	result := &Result{
		GenerationID:       generationID,
		WeekNumber:         weekNumber,
		Goal:               goal,
		XPostsCount:        counts[types.PlatformX],
		LinkedInPostsCount: counts[types.PlatformLinkedIn],
		PostIDs:            make([]uuid.UUID, len(posts)),
		UsedFallback:       usedFallback,
	}
	for i, p := range posts {
		result.PostIDs[i] = p.ID
	}
	return result, nil
}

// notifyWeekReady records the in-app notification and sends the email.
// Neither failure fails the run.
func (o *Orchestrator) notifyWeekReady(ctx context.Context, log *logrus.Entry, accountID uuid.UUID, weekNumber, postCount int) {
	if err := o.store.InsertNotification(ctx, notify.WeekReadyNotification(accountID, weekNumber, postCount)); err != nil {
		log.WithError(err).Warn("failed to record week-ready notification")
	}

	if o.notifier == nil {
		return
	}
	email, err := o.store.GetAccountEmail(ctx, accountID)
	if err != nil || email == "" {
		if err != nil {
			log.WithError(err).Warn("failed to look up account email")
		}
		return
	}
	if err := o.notifier.SendWeekReady(ctx, email, weekNumber, postCount); err != nil {
		log.WithError(err).Warn("failed to send week-ready email")
	}
}

// GenerateSinglePost fills one draft post for the account and schedules
// it. Used by the client-driven fan-out flow where posts are created
// empty first and filled one request at a time.
func (o *Orchestrator) GenerateSinglePost(ctx context.Context, accountID, postID uuid.UUID) (string, error) {
	profile, err := o.store.GetProfile(ctx, accountID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", &ProfileRequiredError{Reason: "no content profile for account"}
	}

	post, err := o.store.GetPost(ctx, postID)
	if err != nil {
		return "", err
	}
	if post == nil || post.ProfileID != profile.ID {
		// Ownership failures look identical to missing posts.
		return "", &PostNotFoundError{PostID: postID.String()}
	}

	slot := types.ScheduleSlot{
		Platform: post.Platform,
		Format:   post.Format,
		Topic:    post.Topic,
	}
	generated, err := o.content.GenerateOne(ctx, slot, profile)
	if err != nil {
		return "", err
	}

	if err := o.store.UpdatePostContent(ctx, postID, generated.Content, generated.Hooks, generated.CTA); err != nil {
		return "", err
	}
	return generated.Content, nil
}

// SetWeeklyGoal records the account's focus for the upcoming run,
// answering the weekly reminder and clearing the awaiting flag.
func (o *Orchestrator) SetWeeklyGoal(ctx context.Context, accountID uuid.UUID, goal, goalContext string) error {
	if !ValidGoal(goal) {
		return &InvalidGoalError{Goal: goal}
	}
	if goal == "" {
		goal = DefaultGoal
	}

	profile, err := o.store.GetProfile(ctx, accountID)
	if err != nil {
		return err
	}
	if profile == nil {
		return &ProfileRequiredError{Reason: "no content profile for account"}
	}

	return o.store.SetWeeklyGoal(ctx, profile.ID, goal, goalContext)
}
