package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/content-pilot/internal/types"
)

const postColumns = `id, profile_id, generation_id, platform, scheduled_date,
	content, hooks, selected_hook, cta, format, topic, status,
	failure_reason, platform_post_id, posted_at, created_at, updated_at, archived_at`

func scanPost(row pgx.Row) (*types.Post, error) {
	var p types.Post
	var selectedHook, topic, failureReason, platformPostID *string
	err := row.Scan(
		&p.ID, &p.ProfileID, &p.GenerationID, &p.Platform, &p.ScheduledDate,
		&p.Content, &p.Hooks, &selectedHook, &p.CTA, &p.Format, &topic, &p.Status,
		&failureReason, &platformPostID, &p.PostedAt, &p.CreatedAt, &p.UpdatedAt, &p.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}
	if selectedHook != nil {
		p.SelectedHook = *selectedHook
	}
	if topic != nil {
		p.Topic = *topic
	}
	if failureReason != nil {
		p.FailureReason = *failureReason
	}
	if platformPostID != nil {
		p.PlatformPostID = *platformPostID
	}
	return &p, nil
}

// InsertPosts saves a batch of posts inside one transaction. Either the
// whole week lands or none of it does.
func (db *DB) InsertPosts(ctx context.Context, posts []types.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range posts {
		p := &posts[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO posts
			   (id, profile_id, generation_id, platform, scheduled_date, content,
			    hooks, selected_hook, cta, format, topic, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.ID, p.ProfileID, p.GenerationID, p.Platform, p.ScheduledDate, p.Content,
			p.Hooks, p.SelectedHook, p.CTA, p.Format, p.Topic, p.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit posts: %w", err)
	}
	return nil
}

// ArchiveStalePosts archives the profile's leftover scheduled and
// skipped posts so a fresh week replaces the old one. Posted posts are
// never touched.
func (db *DB) ArchiveStalePosts(ctx context.Context, profileID uuid.UUID) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE posts
		 SET status = 'archived', archived_at = NOW(), updated_at = NOW()
		 WHERE profile_id = $1 AND status IN ('scheduled', 'skipped', 'draft')`,
		profileID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to archive stale posts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClaimDuePosts atomically moves due scheduled posts into the publishing
// state and returns them. Concurrent cron invocations cannot claim the
// same post twice; SKIP LOCKED lets a second runner pass over rows a
// first runner is mid-claim on.
func (db *DB) ClaimDuePosts(ctx context.Context, limit int) ([]types.Post, error) {
	rows, err := db.pool.Query(ctx,
		`WITH due AS (
		   SELECT posts.id FROM posts
		   JOIN content_profiles cp ON cp.id = posts.profile_id
		   WHERE posts.status = 'scheduled' AND posts.scheduled_date <= NOW()
		     AND cp.auto_publish = TRUE
		   ORDER BY posts.scheduled_date
		   LIMIT $1
		   FOR UPDATE OF posts SKIP LOCKED
		 )
		 UPDATE posts p
		 SET status = 'publishing', updated_at = NOW()
		 FROM due WHERE p.id = due.id
		 RETURNING `+prefixed("p", postColumns),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due posts: %w", err)
	}
	defer rows.Close()

	var posts []types.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// MarkPostPosted records a successful publish.
func (db *DB) MarkPostPosted(ctx context.Context, postID uuid.UUID, platformPostID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE posts
		 SET status = 'posted', platform_post_id = $1, posted_at = NOW(), updated_at = NOW()
		 WHERE id = $2`,
		platformPostID, postID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark post posted: %w", err)
	}
	return nil
}

// MarkPostFailed records a failed publish attempt with the reason.
func (db *DB) MarkPostFailed(ctx context.Context, postID uuid.UUID, reason string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE posts
		 SET status = 'failed', failure_reason = $1, updated_at = NOW()
		 WHERE id = $2`,
		reason, postID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark post failed: %w", err)
	}
	return nil
}

// GetPost retrieves a single post. Returns nil without error when no
// such post exists.
func (db *DB) GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`,
		postID,
	)
	p, err := scanPost(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// UpdatePostContent replaces a draft post's generated fields and moves
// it to scheduled.
func (db *DB) UpdatePostContent(ctx context.Context, postID uuid.UUID, content string, hooks []string, cta *string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE posts
		 SET content = $1, hooks = $2, cta = $3, status = 'scheduled', updated_at = NOW()
		 WHERE id = $4`,
		content, hooks, cta, postID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post content: %w", err)
	}
	return nil
}

// ListPostsByGeneration returns a run's posts in schedule order.
func (db *DB) ListPostsByGeneration(ctx context.Context, generationID uuid.UUID) ([]types.Post, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE generation_id = $1 ORDER BY scheduled_date`,
		generationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []types.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// prefixed qualifies each column in a comma-separated list with a table
// alias, for RETURNING clauses on aliased updates.
func prefixed(alias, columns string) string {
	out := ""
	for i, c := range splitColumns(columns) {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}

func splitColumns(columns string) []string {
	var out []string
	current := ""
	for _, r := range columns {
		switch r {
		case ',':
			out = append(out, current)
			current = ""
		case ' ', '\n', '\t':
		default:
			current += string(r)
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
