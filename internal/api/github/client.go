package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/domain"
)

// Client implements api.EventsClient against the GitHub REST API.
// Follows Single Responsibility Principle - only handles GitHub API communication.
type Client struct {
	baseURL    string
	token      string
	httpClient api.HTTPClient
}

// NewClient creates a new GitHub events client.
// Uses dependency injection for HTTPClient (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
	}
}

// ListUserEvents retrieves one page of events performed by a user.
func (c *Client) ListUserEvents(ctx context.Context, login string, page int) ([]domain.RawEvent, error) {
	url := fmt.Sprintf("%s/users/%s/events?per_page=%d&page=%d", c.baseURL, login, api.DefaultPageSize, page)

	var events []domain.RawEvent
	if err := c.doRequest(ctx, url, &events); err != nil {
		return nil, fmt.Errorf("failed to get user events: %w", err)
	}

	return events, nil
}

// ListRepoEvents retrieves recent events of a repository.
func (c *Client) ListRepoEvents(ctx context.Context, owner, repo string) ([]domain.RawEvent, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/events?per_page=%d", c.baseURL, owner, repo, api.DefaultPageSize)

	var events []domain.RawEvent
	if err := c.doRequest(ctx, url, &events); err != nil {
		return nil, fmt.Errorf("failed to get repository events: %w", err)
	}

	return events, nil
}

// GetPullRequest retrieves a single pull request resource.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	var pr githubPullRequest
	if err := c.doRequest(ctx, url, &pr); err != nil {
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}

	return convertPullRequest(pr), nil
}

// ListCommits retrieves commits reachable from sha no older than since.
func (c *Client) ListCommits(ctx context.Context, owner, repo, sha string, since time.Time) ([]domain.Commit, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/commits?sha=%s&since=%s",
		c.baseURL, owner, repo, url.QueryEscape(sha), url.QueryEscape(since.UTC().Format(time.RFC3339)))

	var ghCommits []githubCommit
	if err := c.doRequest(ctx, reqURL, &ghCommits); err != nil {
		return nil, fmt.Errorf("failed to get commits: %w", err)
	}

	return convertCommits(ghCommits), nil
}

// doRequest performs an HTTP request to GitHub API.
// Follows Single Level of Abstraction Principle (SLAP).
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// convertPullRequest converts a GitHub pull request to the domain model.
func convertPullRequest(pr githubPullRequest) *domain.PullRequest {
	return &domain.PullRequest{
		Number:       pr.Number,
		Title:        pr.Title,
		Body:         pr.Body,
		Author:       pr.User.Login,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
		Merged:       pr.Merged,
	}
}

// convertCommits converts GitHub commit listings to domain models.
func convertCommits(ghCommits []githubCommit) []domain.Commit {
	commits := make([]domain.Commit, 0, len(ghCommits))
	for _, gc := range ghCommits {
		commits = append(commits, domain.Commit{
			SHA:         gc.SHA,
			Message:     gc.Commit.Message,
			AuthorEmail: gc.Commit.Author.Email,
		})
	}
	return commits
}

// GitHub API response types
type githubPullRequest struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Additions    int    `json:"additions"`
	Deletions    int    `json:"deletions"`
	ChangedFiles int    `json:"changed_files"`
	Merged       bool   `json:"merged"`
	User         struct {
		Login string `json:"login"`
	} `json:"user"`
}

type githubCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Email string `json:"email"`
		} `json:"author"`
	} `json:"commit"`
}
