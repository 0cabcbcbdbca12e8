package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/domain"
	"github.com/vilaca/activity-feed/internal/filters"
	"github.com/vilaca/activity-feed/internal/metrics"
	"github.com/vilaca/activity-feed/internal/render"
)

// commitLookback bounds the commit listing fetched for a push event.
const commitLookback = 30 * 24 * time.Hour

// shortSHALen is the length commit SHAs are shortened to.
const shortSHALen = 7

// handlerFunc classifies one raw event of a known type. base carries
// the fields common to every record (actor, repo, timestamp). A nil
// record with nil error means the event is dropped.
type handlerFunc func(ctx context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error)

// classifier maps raw events to activity records. The dispatch table is
// closed: event types without a handler are always dropped.
type classifier struct {
	client   api.EventsClient
	renderer render.Renderer
	now      func() time.Time

	handlers map[string]handlerFunc
}

func newClassifier(client api.EventsClient, renderer render.Renderer) *classifier {
	c := &classifier{
		client:   client,
		renderer: renderer,
		now:      time.Now,
	}

	c.handlers = map[string]handlerFunc{
		"CommitCommentEvent":            c.commitComment,
		"CreateEvent":                   c.refCreate,
		"DeleteEvent":                   c.refDelete,
		"ForkEvent":                     c.fork,
		"GollumEvent":                   c.wiki,
		"IssueCommentEvent":             c.issueComment,
		"IssuesEvent":                   c.issue,
		"MemberEvent":                   c.member,
		"PublicEvent":                   c.public,
		"PullRequestEvent":              c.pullRequest,
		"PullRequestReviewEvent":        c.review,
		"PullRequestReviewCommentEvent": c.reviewComment,
		"PushEvent":                     c.push,
		"ReleaseEvent":                  c.release,
		"WatchEvent":                    c.star,
	}

	return c
}

// Classify maps one raw event to an activity record, or nil when the
// event is filtered out. Excluded repositories short-circuit before any
// handler runs, so no enrichment fetch is issued for them.
func (c *classifier) Classify(ctx context.Context, event domain.RawEvent, opts Options) (*domain.ActivityRecord, error) {
	if !filters.Repo(event.Repo.Name, opts.Skipped) {
		metrics.IncEventDropped(metrics.ReasonRepoExcluded)
		return nil, nil
	}

	handler, ok := c.handlers[event.Type]
	if !ok {
		metrics.IncEventDropped(metrics.ReasonUnknownType)
		return nil, nil
	}

	base := domain.ActivityRecord{
		Actor:     event.Actor.Login,
		Repo:      event.Repo.Name,
		Timestamp: event.CreatedAt,
	}

	return handler(ctx, event, base, opts)
}

// commitComment handles CommitCommentEvent.
func (c *classifier) commitComment(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.CommitCommentPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode CommitCommentEvent payload: %w", err)
	}

	if payload.Action != "created" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}
	if !filters.Text(payload.Comment.User.Login, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	content, err := c.renderer.Render(payload.Comment.Body, opts.Markdown, opts.Codelines)
	if err != nil {
		return nil, err
	}

	record := base
	record.Type = domain.TypeComment
	record.On = "commit"
	record.User = payload.Comment.User.Login
	record.Number = shortSHA(payload.Comment.CommitID)
	record.Title = emptyTitle()
	record.Content = content
	return &record, nil
}

// refCreate handles CreateEvent.
func (c *classifier) refCreate(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, _ Options) (*domain.ActivityRecord, error) {
	return refRecord(event, base, domain.TypeRefCreate)
}

// refDelete handles DeleteEvent.
func (c *classifier) refDelete(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, _ Options) (*domain.ActivityRecord, error) {
	return refRecord(event, base, domain.TypeRefDelete)
}

func refRecord(event domain.RawEvent, base domain.ActivityRecord, recordType domain.RecordType) (*domain.ActivityRecord, error) {
	var payload domain.RefPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}

	record := base
	record.Type = recordType
	record.Ref = &domain.Ref{Name: payload.Ref, Type: payload.RefType}
	return &record, nil
}

// fork handles ForkEvent.
func (c *classifier) fork(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, _ Options) (*domain.ActivityRecord, error) {
	var payload domain.ForkPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode ForkEvent payload: %w", err)
	}

	record := base
	record.Type = domain.TypeFork
	record.Forked = payload.Forkee.FullName
	return &record, nil
}

// wiki handles GollumEvent.
func (c *classifier) wiki(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, _ Options) (*domain.ActivityRecord, error) {
	var payload domain.GollumPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode GollumEvent payload: %w", err)
	}

	pages := make([]string, 0, len(payload.Pages))
	for _, page := range payload.Pages {
		pages = append(pages, page.Title)
	}

	record := base
	record.Type = domain.TypeWiki
	record.Pages = pages
	return &record, nil
}

// issueComment handles IssueCommentEvent.
func (c *classifier) issueComment(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.IssueCommentPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode IssueCommentEvent payload: %w", err)
	}

	if payload.Action != "created" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}
	if !filters.Text(payload.Issue.User.Login, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	content, err := c.renderer.Render(payload.Comment.Body, opts.Markdown, opts.Codelines)
	if err != nil {
		return nil, err
	}

	mobile := isPresent(payload.Comment.PerformedViaGithubApp)

	record := base
	record.Type = domain.TypeComment
	record.On = "issue"
	record.User = payload.Issue.User.Login
	record.Mobile = &mobile
	record.Number = strconv.Itoa(payload.Issue.Number)
	record.Title = titleOf(payload.Issue.Title)
	record.Content = content
	return &record, nil
}

// issue handles IssuesEvent.
func (c *classifier) issue(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.IssuesPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode IssuesEvent payload: %w", err)
	}

	switch payload.Action {
	case "opened", "closed", "reopened":
	default:
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}
	if !filters.Text(payload.Issue.User.Login, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	content, err := c.renderer.Render(payload.Issue.Body, opts.Markdown, opts.Codelines)
	if err != nil {
		return nil, err
	}

	record := base
	record.Type = domain.TypeIssue
	record.Action = payload.Action
	record.User = payload.Issue.User.Login
	record.Number = strconv.Itoa(payload.Issue.Number)
	record.Title = titleOf(payload.Issue.Title)
	record.Content = content
	return &record, nil
}

// member handles MemberEvent.
func (c *classifier) member(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.MemberPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode MemberEvent payload: %w", err)
	}

	if payload.Action != "added" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}
	if !filters.Text(payload.Member.Login, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	record := base
	record.Type = domain.TypeMember
	record.User = payload.Member.Login
	return &record, nil
}

// public handles PublicEvent.
func (c *classifier) public(_ context.Context, _ domain.RawEvent, base domain.ActivityRecord, _ Options) (*domain.ActivityRecord, error) {
	record := base
	record.Type = domain.TypePublic
	return &record, nil
}

// pullRequest handles PullRequestEvent. The raw payload only carries
// the PR number; title, body, counters, merge status and the true
// author come from a secondary fetch of the pull request resource.
func (c *classifier) pullRequest(ctx context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.PullRequestPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode PullRequestEvent payload: %w", err)
	}

	if payload.Action != "opened" && payload.Action != "closed" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}

	metrics.IncEnrichmentFetch("pull_request")
	pr, err := c.client.GetPullRequest(ctx, event.Actor.Login, repoShortName(event.Repo.Name), payload.PullRequest.Number)
	if err != nil {
		metrics.IncEnrichmentFailure("pull_request")
		return nil, fmt.Errorf("failed to enrich pull request #%d: %w", payload.PullRequest.Number, err)
	}

	if !filters.Text(pr.Author, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	content, err := c.renderer.Render(pr.Body, opts.Markdown, opts.Codelines)
	if err != nil {
		return nil, err
	}

	action := payload.Action
	if action == "closed" && pr.Merged {
		action = "merged"
	}

	record := base
	record.Type = domain.TypePR
	record.Action = action
	record.User = pr.Author
	record.Number = strconv.Itoa(payload.PullRequest.Number)
	record.Title = titleOf(pr.Title)
	record.Content = content
	record.Files = &domain.FileStats{Changed: pr.ChangedFiles}
	record.Lines = &domain.LineStats{Added: pr.Additions, Deleted: pr.Deletions}
	return &record, nil
}

// review handles PullRequestReviewEvent.
func (c *classifier) review(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.PullRequestReviewPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode PullRequestReviewEvent payload: %w", err)
	}

	if !filters.Text(payload.Review.User.Login, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	record := base
	record.Type = domain.TypeReview
	record.State = payload.Review.State
	record.User = payload.Review.User.Login
	record.Number = strconv.Itoa(payload.PullRequest.Number)
	return &record, nil
}

// reviewComment handles PullRequestReviewCommentEvent.
func (c *classifier) reviewComment(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.PullRequestReviewCommentPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode PullRequestReviewCommentEvent payload: %w", err)
	}

	if payload.Action != "created" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}
	if !filters.Text(payload.Comment.User.Login, opts.Ignored) {
		metrics.IncEventDropped(metrics.ReasonUserIgnored)
		return nil, nil
	}

	content, err := c.renderer.Render(payload.Comment.Body, opts.Markdown, opts.Codelines)
	if err != nil {
		return nil, err
	}

	record := base
	record.Type = domain.TypeComment
	record.On = "pr"
	record.User = payload.Comment.User.Login
	record.Number = strconv.Itoa(payload.PullRequest.Number)
	record.Content = content
	return &record, nil
}

// push handles PushEvent. The pushed commit range is fetched from the
// commit listing on the pushed ref, bounded to the last 30 days.
// Commits by ignored authors and merge-branch commits are dropped; a
// push with no commits left yields no record. The listing arrives
// newest-first and is emitted oldest-first.
func (c *classifier) push(ctx context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.PushPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode PushEvent payload: %w", err)
	}

	since := c.now().Add(-commitLookback)
	metrics.IncEnrichmentFetch("commits")
	listed, err := c.client.ListCommits(ctx, event.Actor.Login, repoShortName(event.Repo.Name), payload.Head, since)
	if err != nil {
		metrics.IncEnrichmentFailure("commits")
		return nil, fmt.Errorf("failed to enrich push on %s: %w", payload.Ref, err)
	}

	commits := make([]domain.PushCommit, 0, len(listed))
	for _, commit := range listed {
		if !filters.Text(commit.AuthorEmail, opts.Ignored) {
			continue
		}
		if strings.HasPrefix(commit.Message, "Merge branch ") {
			continue
		}
		commits = append(commits, domain.PushCommit{SHA: shortSHA(commit.SHA), Message: commit.Message})
	}

	if len(commits) == 0 {
		metrics.IncEventDropped(metrics.ReasonEmptyPush)
		return nil, nil
	}

	// Oldest first.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	branch := ""
	if name, ok := strings.CutPrefix(payload.Ref, "refs/heads/"); ok {
		branch = name
	}

	record := base
	record.Type = domain.TypePush
	record.Branch = branch
	record.Size = len(commits)
	record.Commits = commits
	return &record, nil
}

// release handles ReleaseEvent.
func (c *classifier) release(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, opts Options) (*domain.ActivityRecord, error) {
	var payload domain.ReleasePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode ReleaseEvent payload: %w", err)
	}

	if payload.Action != "published" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}

	content, err := c.renderer.Render(payload.Release.Body, opts.Markdown, opts.Codelines)
	if err != nil {
		return nil, err
	}

	name := payload.Release.Name
	if name == "" {
		name = payload.Release.TagName
	}

	record := base
	record.Type = domain.TypeRelease
	record.Action = payload.Action
	record.Name = name
	record.Prerelease = payload.Release.Prerelease
	record.Draft = payload.Release.Draft
	record.Content = content
	return &record, nil
}

// star handles WatchEvent.
func (c *classifier) star(_ context.Context, event domain.RawEvent, base domain.ActivityRecord, _ Options) (*domain.ActivityRecord, error) {
	var payload domain.WatchPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode WatchEvent payload: %w", err)
	}

	if payload.Action != "started" {
		metrics.IncEventDropped(metrics.ReasonAction)
		return nil, nil
	}

	record := base
	record.Type = domain.TypeStar
	record.Action = payload.Action
	return &record, nil
}

// shortSHA shortens a commit SHA to its 7-char display form.
func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}

// repoShortName extracts "name" from "owner/name".
func repoShortName(fullName string) string {
	if _, name, found := strings.Cut(fullName, "/"); found {
		return name
	}
	return fullName
}

// titleOf returns a pointer to a present title.
func titleOf(title string) *string {
	return &title
}

// emptyTitle is the explicit empty title of commit comments.
func emptyTitle() *string {
	empty := ""
	return &empty
}

// isPresent reports whether a raw JSON field carries a non-null value.
func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
