package ai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"researchhub/ai"
)

func TestCompleteParsesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Stream    bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m", body.Model)
		assert.Equal(t, 1024, body.MaxTokens)
		assert.False(t, body.Stream)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"hi there"}}]}`)
	}))
	defer srv.Close()

	client := ai.NewClient(nil)
	cfg := ai.Config{BaseURL: srv.URL, APIKey: "key", Model: "m", MaxTokens: 1024}
	text, err := client.Complete(context.Background(), cfg, []ai.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := ai.NewClient(nil)
	cfg := ai.Config{BaseURL: srv.URL, APIKey: "bad", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	client := ai.NewClient(nil)
	cfg := ai.Config{BaseURL: srv.URL, APIKey: "key", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestStreamCompleteAssemblesChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client := ai.NewClient(nil)
	cfg := ai.Config{BaseURL: srv.URL, APIKey: "key", Model: "m"}

	var got []string
	full, err := client.StreamComplete(context.Background(), cfg, nil, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ab", full)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestStreamCompleteChunkCallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
	}))
	defer srv.Close()

	client := ai.NewClient(nil)
	cfg := ai.Config{BaseURL: srv.URL, APIKey: "key", Model: "m"}

	wantErr := fmt.Errorf("stop")
	_, err := client.StreamComplete(context.Background(), cfg, nil, func(string) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
