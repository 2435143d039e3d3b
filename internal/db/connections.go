package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/content-pilot/internal/types"
)

// GetConnectionByProfile resolves a platform credential through the
// owning profile. Posts carry a profile id, not an account id, so the
// publisher goes through this join.
func (db *DB) GetConnectionByProfile(ctx context.Context, profileID uuid.UUID, platform types.Platform) (*types.SocialConnection, error) {
	var c types.SocialConnection
	var pID *string
	err := db.pool.QueryRow(ctx,
		`SELECT sc.id, sc.account_id, sc.platform, sc.access_token, sc.profile_id
		 FROM social_connections sc
		 JOIN content_profiles cp ON cp.account_id = sc.account_id
		 WHERE cp.id = $1 AND sc.platform = $2`,
		profileID, platform,
	).Scan(&c.ID, &c.AccountID, &c.Platform, &c.AccessToken, &pID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection for profile: %w", err)
	}
	if pID != nil {
		c.ProfileID = *pID
	}
	return &c, nil
}

// GetSubscription retrieves the account's billing record. Returns nil
// without error when the account has never subscribed; callers treat nil
// as inactive.
func (db *DB) GetSubscription(ctx context.Context, accountID uuid.UUID) (*types.Subscription, error) {
	var s types.Subscription
	err := db.pool.QueryRow(ctx,
		`SELECT account_id, status, trial_end
		 FROM subscriptions WHERE account_id = $1`,
		accountID,
	).Scan(&s.AccountID, &s.Status, &s.TrialEnd)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &s, nil
}

// GetAccountEmail returns the account's login email, used for the
// week-ready and reminder messages. Empty when the account is unknown.
func (db *DB) GetAccountEmail(ctx context.Context, accountID uuid.UUID) (string, error) {
	var email string
	err := db.pool.QueryRow(ctx,
		`SELECT email FROM accounts WHERE id = $1`,
		accountID,
	).Scan(&email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get account email: %w", err)
	}
	return email, nil
}

// InsertNotification records an in-app notification for the account.
func (db *DB) InsertNotification(ctx context.Context, n *types.Notification) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO notifications (account_id, type, title, message, action_url)
		 VALUES ($1, $2, $3, $4, $5)`,
		n.AccountID, n.Type, n.Title, n.Message, n.ActionURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
