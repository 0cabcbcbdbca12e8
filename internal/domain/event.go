package domain

import (
	"encoding/json"
	"time"
)

// Actor is the account that performed an event.
type Actor struct {
	Login string `json:"login"`
}

// EventRepo identifies the repository an event belongs to.
// Name is the full "owner/name" form, as delivered by the events API.
type EventRepo struct {
	Name string `json:"name"`
}

// RawEvent is one unprocessed event record as returned by the GitHub
// events API. The payload shape depends on Type and is decoded lazily
// by the classifier; everything else is common to all event types.
type RawEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     Actor           `json:"actor"`
	Repo      EventRepo       `json:"repo"`
	Payload   json.RawMessage `json:"payload"`
	Public    bool            `json:"public"`
	CreatedAt time.Time       `json:"created_at"`
}

// User is a GitHub user reference embedded in event payloads.
type User struct {
	Login string `json:"login"`
}

// CommitCommentPayload is the payload of a CommitCommentEvent.
type CommitCommentPayload struct {
	Action  string `json:"action"`
	Comment struct {
		User     User   `json:"user"`
		CommitID string `json:"commit_id"`
		Body     string `json:"body"`
	} `json:"comment"`
}

// RefPayload is the payload of CreateEvent and DeleteEvent.
type RefPayload struct {
	Ref     string `json:"ref"`
	RefType string `json:"ref_type"`
}

// ForkPayload is the payload of a ForkEvent.
type ForkPayload struct {
	Forkee struct {
		FullName string `json:"full_name"`
	} `json:"forkee"`
}

// GollumPayload is the payload of a GollumEvent (wiki changes).
type GollumPayload struct {
	Pages []struct {
		Title string `json:"title"`
	} `json:"pages"`
}

// IssueCommentPayload is the payload of an IssueCommentEvent.
type IssueCommentPayload struct {
	Action string `json:"action"`
	Issue  struct {
		User   User   `json:"user"`
		Title  string `json:"title"`
		Number int    `json:"number"`
	} `json:"issue"`
	Comment struct {
		Body string `json:"body"`
		// Non-null when the comment was posted through a GitHub App.
		PerformedViaGithubApp json.RawMessage `json:"performed_via_github_app"`
	} `json:"comment"`
}

// IssuesPayload is the payload of an IssuesEvent.
type IssuesPayload struct {
	Action string `json:"action"`
	Issue  struct {
		User   User   `json:"user"`
		Title  string `json:"title"`
		Number int    `json:"number"`
		Body   string `json:"body"`
	} `json:"issue"`
}

// MemberPayload is the payload of a MemberEvent.
type MemberPayload struct {
	Action string `json:"action"`
	Member User   `json:"member"`
}

// PullRequestPayload is the payload of a PullRequestEvent. Only the
// number is used; the rest of the record comes from a secondary fetch
// of the pull request resource.
type PullRequestPayload struct {
	Action      string `json:"action"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

// PullRequestReviewPayload is the payload of a PullRequestReviewEvent.
type PullRequestReviewPayload struct {
	Review struct {
		User  User   `json:"user"`
		State string `json:"state"`
	} `json:"review"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

// PullRequestReviewCommentPayload is the payload of a
// PullRequestReviewCommentEvent.
type PullRequestReviewCommentPayload struct {
	Action      string `json:"action"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Comment struct {
		Body string `json:"body"`
		User User   `json:"user"`
	} `json:"comment"`
}

// PushPayload is the payload of a PushEvent. The commit range itself is
// retrieved with a secondary fetch on the pushed ref.
type PushPayload struct {
	Ref  string `json:"ref"`
	Head string `json:"head"`
}

// ReleasePayload is the payload of a ReleaseEvent.
type ReleasePayload struct {
	Action  string `json:"action"`
	Release struct {
		Name       string `json:"name"`
		TagName    string `json:"tag_name"`
		Prerelease bool   `json:"prerelease"`
		Draft      bool   `json:"draft"`
		Body       string `json:"body"`
	} `json:"release"`
}

// WatchPayload is the payload of a WatchEvent.
type WatchPayload struct {
	Action string `json:"action"`
}

// PullRequest is the pull request resource retrieved during enrichment.
type PullRequest struct {
	Number       int
	Title        string
	Body         string
	Author       string
	Additions    int
	Deletions    int
	ChangedFiles int
	Merged       bool
}

// Commit is one commit from a commit listing, newest-first as delivered.
type Commit struct {
	SHA         string
	Message     string
	AuthorEmail string
}
