package github

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vilaca/activity-feed/internal/api"
)

// mockHTTPClient is a test double for HTTPClient.
// Follows FIRST principles - tests are Fast and Independent.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// TestListUserEvents tests retrieving one page of user events.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestListUserEvents(t *testing.T) {
	// Arrange
	responseBody := `[
		{"id": "1", "type": "WatchEvent", "actor": {"login": "octocat"},
		 "repo": {"name": "octocat/hello-world"},
		 "payload": {"action": "started"},
		 "public": true, "created_at": "2024-03-01T12:00:00Z"}
	]`

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			// Verify request setup
			if !strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
				t.Error("expected Authorization header to be set")
			}

			if !strings.Contains(req.URL.String(), "/users/octocat/events") {
				t.Errorf("expected user events endpoint, got %s", req.URL.String())
			}

			if req.URL.Query().Get("page") != "2" {
				t.Errorf("expected page=2, got %s", req.URL.Query().Get("page"))
			}

			return jsonResponse(http.StatusOK, responseBody), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "test-token"}, mockHTTP)

	// Act
	events, err := client.ListUserEvents(context.Background(), "octocat", 2)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if events[0].Type != "WatchEvent" {
		t.Errorf("expected type 'WatchEvent', got %q", events[0].Type)
	}

	if events[0].Actor.Login != "octocat" {
		t.Errorf("expected actor 'octocat', got %q", events[0].Actor.Login)
	}

	if !events[0].Public {
		t.Error("expected public event")
	}

	if string(events[0].Payload) == "" {
		t.Error("expected raw payload to be preserved")
	}
}

// TestListUserEvents_APIError tests error handling for failed pages.
func TestListUserEvents_APIError(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnprocessableEntity, `{"message":"pagination limit"}`), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "test-token"}, mockHTTP)

	// Act
	events, err := client.ListUserEvents(context.Background(), "octocat", 4)

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if events != nil {
		t.Errorf("expected nil events on error, got %v", events)
	}
}

// TestListRepoEvents tests the repository events endpoint.
func TestListRepoEvents(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/repos/octocat/hello-world/events") {
				t.Errorf("expected repo events endpoint, got %s", req.URL.Path)
			}

			return jsonResponse(http.StatusOK, `[]`), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "test-token"}, mockHTTP)

	// Act
	events, err := client.ListRepoEvents(context.Background(), "octocat", "hello-world")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

// TestGetPullRequest tests retrieving and converting a pull request.
func TestGetPullRequest(t *testing.T) {
	// Arrange
	responseBody := `{
		"number": 42, "title": "Add feature", "body": "Details",
		"additions": 10, "deletions": 3, "changed_files": 2,
		"merged": true, "user": {"login": "alice"}
	}`

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/repos/octocat/hello-world/pulls/42") {
				t.Errorf("expected pulls endpoint, got %s", req.URL.Path)
			}

			return jsonResponse(http.StatusOK, responseBody), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "test-token"}, mockHTTP)

	// Act
	pr, err := client.GetPullRequest(context.Background(), "octocat", "hello-world", 42)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if pr.Number != 42 {
		t.Errorf("expected number 42, got %d", pr.Number)
	}

	if pr.Author != "alice" {
		t.Errorf("expected author 'alice', got %q", pr.Author)
	}

	if !pr.Merged {
		t.Error("expected merged flag")
	}

	if pr.Additions != 10 || pr.Deletions != 3 || pr.ChangedFiles != 2 {
		t.Errorf("unexpected counters: +%d -%d files %d", pr.Additions, pr.Deletions, pr.ChangedFiles)
	}
}

// TestListCommits tests retrieving and converting a commit listing.
func TestListCommits(t *testing.T) {
	// Arrange
	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	responseBody := `[
		{"sha": "aaaaaaaabbbbbbbb", "commit": {"message": "Second", "author": {"email": "alice@example.com"}}},
		{"sha": "ccccccccdddddddd", "commit": {"message": "First", "author": {"email": "alice@example.com"}}}
	]`

	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			query := req.URL.Query()
			if query.Get("sha") != "head-sha" {
				t.Errorf("expected sha=head-sha, got %s", query.Get("sha"))
			}

			if query.Get("since") != "2024-02-01T00:00:00Z" {
				t.Errorf("expected since bound, got %s", query.Get("since"))
			}

			return jsonResponse(http.StatusOK, responseBody), nil
		},
	}

	client := NewClient(api.ClientConfig{Token: "test-token"}, mockHTTP)

	// Act
	commits, err := client.ListCommits(context.Background(), "octocat", "hello-world", "head-sha", since)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}

	if commits[0].SHA != "aaaaaaaabbbbbbbb" {
		t.Errorf("expected source order preserved, got %q first", commits[0].SHA)
	}

	if commits[1].AuthorEmail != "alice@example.com" {
		t.Errorf("expected author email, got %q", commits[1].AuthorEmail)
	}
}
