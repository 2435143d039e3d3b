package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/content-pilot/internal/types"
)

// DefaultLinkedInBaseURL is the LinkedIn REST endpoint.
const DefaultLinkedInBaseURL = "https://api.linkedin.com"

// LinkedInAdapter publishes member shares through the ugcPosts API.
type LinkedInAdapter struct {
	baseURL string
	client  *http.Client
}

// NewLinkedInAdapter creates an adapter against the production API.
func NewLinkedInAdapter() *LinkedInAdapter {
	return &LinkedInAdapter{
		baseURL: DefaultLinkedInBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewLinkedInAdapterWithBaseURL creates an adapter against a custom endpoint.
func NewLinkedInAdapterWithBaseURL(baseURL string) *LinkedInAdapter {
	a := NewLinkedInAdapter()
	a.baseURL = baseURL
	return a
}

type ugcPostRequest struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent struct {
			ShareCommentary struct {
				Text string `json:"text"`
			} `json:"shareCommentary"`
			ShareMediaCategory string `json:"shareMediaCategory"`
		} `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility struct {
		MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
	} `json:"visibility"`
}

type ugcPostResponse struct {
	ID string `json:"id"`
}

// Publish creates a public text share authored by the connected member
// and returns the share id.
func (a *LinkedInAdapter) Publish(ctx context.Context, conn *types.SocialConnection, post *types.Post) (string, error) {
	if conn.ProfileID == "" {
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "connection missing member id"}
	}

	var payload ugcPostRequest
	payload.Author = "urn:li:person:" + conn.ProfileID
	payload.LifecycleState = "PUBLISHED"
	payload.SpecificContent.ShareContent.ShareCommentary.Text = post.Content
	payload.SpecificContent.ShareContent.ShareMediaCategory = "NONE"
	payload.Visibility.MemberNetworkVisibility = "PUBLIC"

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "failed to encode share", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", &Error{
			Platform:   types.PlatformLinkedIn,
			Message:    truncate(string(respBody), 200),
			StatusCode: resp.StatusCode,
		}
	}

	var parsed ugcPostResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "failed to decode response", Cause: err}
	}
	if parsed.ID == "" {
		// Some responses carry the id only in the header.
		if id := resp.Header.Get("X-RestLi-Id"); id != "" {
			return id, nil
		}
		return "", &Error{Platform: types.PlatformLinkedIn, Message: "response missing share id"}
	}
	return parsed.ID, nil
}
