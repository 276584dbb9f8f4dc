package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsExpectedRequest(t *testing.T) {
	var got struct {
		method  string
		path    string
		token   string
		content string
		body    map[string]string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.token = r.Header.Get("X-Email-Server-Token")
		got.content = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "newsletter@example.com", "server-token", time.Second)
	err := client.Send(context.Background(), "pogolius@gmail.com", "Issue #1", "<p>Html body</p>", "Text body")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/email", got.path)
	assert.Equal(t, "server-token", got.token)
	assert.Equal(t, "application/json", got.content)
	assert.Equal(t, "newsletter@example.com", got.body["From"])
	assert.Equal(t, "pogolius@gmail.com", got.body["To"])
	assert.Equal(t, "Issue #1", got.body["Subject"])
	assert.Equal(t, "<p>Html body</p>", got.body["HtmlBody"])
	assert.Equal(t, "Text body", got.body["TextBody"])
}

func TestSendFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "newsletter@example.com", "server-token", time.Second)
	err := client.Send(context.Background(), "pogolius@gmail.com", "Issue #1", "html", "text")
	assert.Error(t, err)
}

func TestSendTimesOutOnSlowServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "newsletter@example.com", "server-token", 50*time.Millisecond)
	err := client.Send(context.Background(), "pogolius@gmail.com", "Issue #1", "html", "text")
	assert.Error(t, err)
}

func TestSendHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "newsletter@example.com", "server-token", time.Second)
	err := client.Send(ctx, "pogolius@gmail.com", "Issue #1", "html", "text")
	assert.Error(t, err)
}
