package publisher

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/content-pilot/internal/types"
)

// DefaultClaimLimit bounds how many due posts one sweep will take.
const DefaultClaimLimit = 100

// defaultConcurrency bounds how many posts publish in flight at once.
// Platform APIs are the bottleneck, not the database.
const defaultConcurrency = 4

// Store is the persistence surface the runner needs.
type Store interface {
	ClaimDuePosts(ctx context.Context, limit int) ([]types.Post, error)
	GetConnectionByProfile(ctx context.Context, profileID uuid.UUID, platform types.Platform) (*types.SocialConnection, error)
	MarkPostPosted(ctx context.Context, postID uuid.UUID, platformPostID string) error
	MarkPostFailed(ctx context.Context, postID uuid.UUID, reason string) error
}

// Summary reports the outcome of one publishing sweep.
type Summary struct {
	Processed int `json:"processed"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// Runner claims due posts and pushes each through its platform adapter.
// A failure on one post never blocks the rest of the sweep.
type Runner struct {
	store    Store
	adapters map[types.Platform]Adapter
	log      *logrus.Entry
	limit    int
}

// NewRunner creates a runner over the given store and adapters.
func NewRunner(store Store, adapters map[types.Platform]Adapter, log *logrus.Entry) *Runner {
	return &Runner{
		store:    store,
		adapters: adapters,
		log:      log,
		limit:    DefaultClaimLimit,
	}
}

// Run performs one sweep: claim everything due, publish the claimed
// posts with bounded concurrency, record each outcome. The returned
// error covers only the claim itself; per-post failures land in the
// summary and in the post rows.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	posts, err := r.store.ClaimDuePosts(ctx, r.limit)
	if err != nil {
		return summary, fmt.Errorf("failed to claim due posts: %w", err)
	}
	summary.Processed = len(posts)
	if len(posts) == 0 {
		return summary, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(defaultConcurrency)

	var mu sync.Mutex // protects summary counters

	for i := range posts {
		post := &posts[i]
		g.Go(func() error {
			log := r.log.WithFields(logrus.Fields{
				"post_id":  post.ID,
				"platform": post.Platform,
			})

			platformPostID, err := r.publishOne(gCtx, post)
			if err != nil {
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				log.WithError(err).Warn("post publish failed")
				if markErr := r.store.MarkPostFailed(gCtx, post.ID, err.Error()); markErr != nil {
					log.WithError(markErr).Error("failed to record publish failure")
				}
				return nil
			}

			mu.Lock()
			summary.Published++
			mu.Unlock()
			log.WithField("platform_post_id", platformPostID).Info("post published")
			if markErr := r.store.MarkPostPosted(gCtx, post.ID, platformPostID); markErr != nil {
				log.WithError(markErr).Error("failed to record publish success")
			}
			return nil
		})
	}

	// Workers never return errors; failures are per-post outcomes.
	_ = g.Wait()

	return summary, nil
}

func (r *Runner) publishOne(ctx context.Context, post *types.Post) (string, error) {
	adapter, ok := r.adapters[post.Platform]
	if !ok {
		return "", fmt.Errorf("no adapter for platform %q", post.Platform)
	}

	conn, err := r.store.GetConnectionByProfile(ctx, post.ProfileID, post.Platform)
	if err != nil {
		return "", err
	}
	if conn == nil {
		return "", fmt.Errorf("%s is not connected", post.Platform)
	}

	return adapter.Publish(ctx, conn, post)
}
