package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pilot/internal/types"
)

func TestLinkedInAdapterPublish(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer tok-li", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "urn:li:ugcPost:42"}`)
	}))
	defer srv.Close()

	a := NewLinkedInAdapterWithBaseURL(srv.URL)
	conn := &types.SocialConnection{AccessToken: "tok-li", ProfileID: "abc123"}
	post := &types.Post{Content: "Professional insight"}

	id, err := a.Publish(context.Background(), conn, post)
	require.NoError(t, err)
	assert.Equal(t, "urn:li:ugcPost:42", id)

	assert.Equal(t, "urn:li:person:abc123", got["author"])
	assert.Equal(t, "PUBLISHED", got["lifecycleState"])

	visibility := got["visibility"].(map[string]any)
	assert.Equal(t, "PUBLIC", visibility["com.linkedin.ugc.MemberNetworkVisibility"])

	content := got["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
	assert.Equal(t, "NONE", content["shareMediaCategory"])
	commentary := content["shareCommentary"].(map[string]any)
	assert.Equal(t, "Professional insight", commentary["text"])
}

func TestLinkedInAdapterIDFromHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RestLi-Id", "urn:li:ugcPost:77")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	a := NewLinkedInAdapterWithBaseURL(srv.URL)
	conn := &types.SocialConnection{AccessToken: "tok", ProfileID: "p"}

	id, err := a.Publish(context.Background(), conn, &types.Post{Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "urn:li:ugcPost:77", id)
}

func TestLinkedInAdapterMissingMemberID(t *testing.T) {
	a := NewLinkedInAdapter()
	conn := &types.SocialConnection{AccessToken: "tok"}

	_, err := a.Publish(context.Background(), conn, &types.Post{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing member id")
}

func TestLinkedInAdapterAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "token expired"}`)
	}))
	defer srv.Close()

	a := NewLinkedInAdapterWithBaseURL(srv.URL)
	conn := &types.SocialConnection{AccessToken: "dead", ProfileID: "p"}

	_, err := a.Publish(context.Background(), conn, &types.Post{Content: "x"})
	require.Error(t, err)

	var pubErr *Error
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, http.StatusUnauthorized, pubErr.StatusCode)
	assert.Contains(t, pubErr.Message, "token expired")
}
