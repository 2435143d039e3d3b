package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/content-pilot/internal/types"
)

// Mailer is the delivery surface; satisfied by EmailSender.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

// Notifier composes and sends the pipeline's messages.
type Notifier struct {
	mailer  Mailer
	appURL  string
	appName string
}

// NewNotifier creates a notifier. appURL is the dashboard base URL used
// in message links.
func NewNotifier(mailer Mailer, appURL string) *Notifier {
	return &Notifier{
		mailer:  mailer,
		appURL:  appURL,
		appName: "Content Pilot",
	}
}

// SendWeekReady tells the account its new week of posts is drafted and
// waiting for review.
func (n *Notifier) SendWeekReady(ctx context.Context, to string, weekNumber, postCount int) error {
	subject := fmt.Sprintf("Week %d content is ready for review", weekNumber)
	body := fmt.Sprintf(
		`<p>Your week %d schedule is ready: %d posts drafted and scheduled.</p>
<p>Review and edit them before they go out: <a href="%s/schedule">%s/schedule</a></p>
<p>— %s</p>`,
		weekNumber, postCount, n.appURL, n.appURL, n.appName,
	)
	if err := n.mailer.SendMail(ctx, to, subject, body); err != nil {
		return fmt.Errorf("failed to send week-ready email: %w", err)
	}
	return nil
}

// SendGoalReminder asks the account to pick a focus for the upcoming
// week before generation runs.
func (n *Notifier) SendGoalReminder(ctx context.Context, to string, nextGeneration time.Time) error {
	subject := "What should next week's content focus on?"
	body := fmt.Sprintf(
		`<p>Your next content week generates on %s.</p>
<p>Pick a goal for the week (or we will keep your current focus): <a href="%s/goals">%s/goals</a></p>
<p>— %s</p>`,
		nextGeneration.Format("Monday, January 2"), n.appURL, n.appURL, n.appName,
	)
	if err := n.mailer.SendMail(ctx, to, subject, body); err != nil {
		return fmt.Errorf("failed to send goal reminder: %w", err)
	}
	return nil
}

// WeekReadyNotification builds the matching in-app notification record.
func WeekReadyNotification(accountID uuid.UUID, weekNumber, postCount int) *types.Notification {
	return &types.Notification{
		AccountID: accountID,
		Type:      "week_ready",
		Title:     fmt.Sprintf("Week %d content is ready", weekNumber),
		Message:   fmt.Sprintf("%d posts drafted and scheduled. Review them before they go out.", postCount),
		ActionURL: "/schedule",
	}
}

// GoalReminderNotification builds the in-app goal prompt.
func GoalReminderNotification(accountID uuid.UUID) *types.Notification {
	return &types.Notification{
		AccountID: accountID,
		Type:      "goal_reminder",
		Title:     "Pick next week's focus",
		Message:   "Your next content week generates soon. Choose a goal to steer it.",
		ActionURL: "/goals",
	}
}
