package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vilaca/activity-feed/internal/domain"
)

const (
	// MaxConcurrentRequests limits concurrent API requests to avoid overwhelming the API
	MaxConcurrentRequests = 5
	// DefaultPageSize is the number of events requested per page
	DefaultPageSize = 100
)

// EventsClient defines the transport surface the feed engine needs.
// This follows Interface Segregation Principle - small, focused interface.
// Allows dependency inversion - consumers depend on this interface, not concrete implementations.
type EventsClient interface {
	// ListUserEvents returns one page of events performed by a user,
	// reverse-chronological. Requesting past the last page fails.
	ListUserEvents(ctx context.Context, login string, page int) ([]domain.RawEvent, error)

	// ListRepoEvents returns recent events of a single repository.
	ListRepoEvents(ctx context.Context, owner, repo string) ([]domain.RawEvent, error)

	// GetPullRequest returns the full pull request resource.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error)

	// ListCommits returns commits reachable from sha no older than since,
	// newest-first.
	ListCommits(ctx context.Context, owner, repo, sha string, since time.Time) ([]domain.Commit, error)
}

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}
