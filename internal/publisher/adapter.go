// Package publisher delivers scheduled posts to the social platforms and
// runs the cron-driven publishing sweep.
package publisher

import (
	"context"
	"fmt"

	"github.com/jonathan/content-pilot/internal/types"
)

// Adapter publishes one post to a single platform. Implementations
// return the platform-assigned post id (first tweet id for threads, the
// share URN for LinkedIn).
type Adapter interface {
	Publish(ctx context.Context, conn *types.SocialConnection, post *types.Post) (string, error)
}

// Error represents a failure talking to a platform API.
type Error struct {
	Platform   types.Platform
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s publish error: %s: %v", e.Platform, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s publish error: %s (HTTP %d)", e.Platform, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s publish error: %s", e.Platform, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Adapters maps each supported platform to its adapter.
func Adapters() map[types.Platform]Adapter {
	return map[types.Platform]Adapter{
		types.PlatformX:        NewXAdapter(),
		types.PlatformLinkedIn: NewLinkedInAdapter(),
	}
}
