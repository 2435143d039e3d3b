package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/content-pilot/internal/types"
)

// ReminderWindow is how far ahead the weekly reminder looks for
// profiles whose next generation is coming up.
const ReminderWindow = 24 * time.Hour

// ReminderStore is the persistence surface the reminder sweep needs.
type ReminderStore interface {
	ListProfilesDueForReminder(ctx context.Context, until time.Time) ([]types.Profile, error)
	SetAwaitingGoalInput(ctx context.Context, profileID uuid.UUID, awaiting bool) error
	InsertNotification(ctx context.Context, n *types.Notification) error
	GetAccountEmail(ctx context.Context, accountID uuid.UUID) (string, error)
}

// ReminderSummary reports one reminder sweep.
type ReminderSummary struct {
	Reminded int `json:"reminded"`
	Failed   int `json:"failed"`
}

// Reminder finds profiles due to generate within the window, flags them
// awaiting goal input, and prompts the owner to pick a weekly goal.
type Reminder struct {
	store    ReminderStore
	notifier *Notifier
	log      *logrus.Entry
	now      func() time.Time
}

// NewReminder creates the weekly reminder sweep. notifier may be nil
// when email is not configured; the in-app notification still lands.
func NewReminder(store ReminderStore, notifier *Notifier, log *logrus.Entry) *Reminder {
	return &Reminder{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run performs one sweep. Per-profile failures are isolated.
func (r *Reminder) Run(ctx context.Context) (ReminderSummary, error) {
	var summary ReminderSummary

	// Due-or-overdue up to the lookahead horizon: a profile whose date
	// slipped past during cron downtime still gets its reminder.
	now := r.now().UTC()
	profiles, err := r.store.ListProfilesDueForReminder(ctx, now.Add(ReminderWindow))
	if err != nil {
		return summary, err
	}

	for i := range profiles {
		profile := &profiles[i]
		log := r.log.WithField("profile_id", profile.ID)

		if err := r.remindOne(ctx, profile); err != nil {
			summary.Failed++
			log.WithError(err).Warn("reminder failed")
			continue
		}
		summary.Reminded++
	}
	return summary, nil
}

func (r *Reminder) remindOne(ctx context.Context, profile *types.Profile) error {
	if err := r.store.SetAwaitingGoalInput(ctx, profile.ID, true); err != nil {
		return err
	}
	if err := r.store.InsertNotification(ctx, GoalReminderNotification(profile.AccountID)); err != nil {
		return err
	}

	if r.notifier == nil || profile.NextGenerationDate == nil {
		return nil
	}
	email, err := r.store.GetAccountEmail(ctx, profile.AccountID)
	if err != nil || email == "" {
		return err
	}
	return r.notifier.SendGoalReminder(ctx, email, *profile.NextGenerationDate)
}
