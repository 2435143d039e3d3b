package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/content-pilot/internal/types"
)

// DefaultXBaseURL is the X API v2 endpoint.
const DefaultXBaseURL = "https://api.twitter.com"

// XAdapter publishes to X. Thread-format posts are split on blank
// lines and published as a chain of replies.
type XAdapter struct {
	baseURL string
	client  *http.Client
}

// NewXAdapter creates an adapter against the production API.
func NewXAdapter() *XAdapter {
	return &XAdapter{
		baseURL: DefaultXBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewXAdapterWithBaseURL creates an adapter against a custom endpoint.
func NewXAdapterWithBaseURL(baseURL string) *XAdapter {
	a := NewXAdapter()
	a.baseURL = baseURL
	return a
}

type tweetRequest struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply,omitempty"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// SplitThread breaks post content into tweet-sized segments on blank
// lines. Single-segment content publishes as one tweet.
func SplitThread(content string) []string {
	parts := strings.Split(content, "\n\n")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Publish posts the content, chaining replies for thread-format posts,
// and returns the id of the first tweet.
func (a *XAdapter) Publish(ctx context.Context, conn *types.SocialConnection, post *types.Post) (string, error) {
	segments := []string{strings.TrimSpace(post.Content)}
	if post.Format == types.FormatThread {
		segments = SplitThread(post.Content)
	}
	if len(segments) == 0 || segments[0] == "" {
		return "", &Error{Platform: types.PlatformX, Message: "empty content"}
	}

	var firstID, previousID string
	for _, segment := range segments {
		req := tweetRequest{Text: segment}
		if previousID != "" {
			req.Reply = &struct {
				InReplyToTweetID string `json:"in_reply_to_tweet_id"`
			}{InReplyToTweetID: previousID}
		}

		id, err := a.postTweet(ctx, conn.AccessToken, req)
		if err != nil {
			if firstID != "" {
				// Thread is partially up; report the break point.
				return "", &Error{
					Platform: types.PlatformX,
					Message:  fmt.Sprintf("thread broke after tweet %s", previousID),
					Cause:    err,
				}
			}
			return "", err
		}
		if firstID == "" {
			firstID = id
		}
		previousID = id
	}
	return firstID, nil
}

func (a *XAdapter) postTweet(ctx context.Context, accessToken string, tweet tweetRequest) (string, error) {
	body, err := json.Marshal(tweet)
	if err != nil {
		return "", &Error{Platform: types.PlatformX, Message: "failed to encode tweet", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Platform: types.PlatformX, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &Error{Platform: types.PlatformX, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Platform: types.PlatformX, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", &Error{
			Platform:   types.PlatformX,
			Message:    truncate(string(respBody), 200),
			StatusCode: resp.StatusCode,
		}
	}

	var parsed tweetResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Platform: types.PlatformX, Message: "failed to decode response", Cause: err}
	}
	if parsed.Data.ID == "" {
		return "", &Error{Platform: types.PlatformX, Message: "response missing tweet id"}
	}
	return parsed.Data.ID, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
