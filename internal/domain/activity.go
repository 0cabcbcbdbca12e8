package domain

import "time"

// RecordType is the discriminator of an ActivityRecord. The set is
// closed: classification never emits a type outside these constants.
type RecordType string

const (
	TypeComment   RecordType = "comment"
	TypeRefCreate RecordType = "ref/create"
	TypeRefDelete RecordType = "ref/delete"
	TypeFork      RecordType = "fork"
	TypeWiki      RecordType = "wiki"
	TypeIssue     RecordType = "issue"
	TypeMember    RecordType = "member"
	TypePublic    RecordType = "public"
	TypePR        RecordType = "pr"
	TypeReview    RecordType = "review"
	TypePush      RecordType = "push"
	TypeRelease   RecordType = "release"
	TypeStar      RecordType = "star"
)

// Ref describes a created or deleted git reference.
type Ref struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PushCommit is one commit inside a push record.
type PushCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// FileStats holds the file counts of a pull request.
type FileStats struct {
	Changed int `json:"changed"`
}

// LineStats holds the line counts of a pull request.
type LineStats struct {
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

// ActivityRecord is the normalized, display-ready representation of one
// activity item. Type, Actor, Repo and Timestamp are present on every
// record; the remaining fields depend on the variant.
//
// Number is a string: it holds the decimal issue/PR number, or the
// 7-char commit SHA for commit comments. Title distinguishes empty
// ("" for commit comments) from absent (reviews, review comments).
type ActivityRecord struct {
	Type      RecordType `json:"type"`
	Actor     string     `json:"actor"`
	Repo      string     `json:"repo"`
	Timestamp time.Time  `json:"timestamp"`

	Action  string  `json:"action,omitempty"`
	On      string  `json:"on,omitempty"`
	User    string  `json:"user,omitempty"`
	Mobile  *bool   `json:"mobile,omitempty"`
	Number  string  `json:"number,omitempty"`
	Title   *string `json:"title,omitempty"`
	Content string  `json:"content,omitempty"`

	// Review
	State string `json:"state,omitempty"`

	// Ref create/delete
	Ref *Ref `json:"ref,omitempty"`

	// Fork
	Forked string `json:"forked,omitempty"`

	// Wiki
	Pages []string `json:"pages,omitempty"`

	// Push
	Branch  string       `json:"branch,omitempty"`
	Size    int          `json:"size,omitempty"`
	Commits []PushCommit `json:"commits,omitempty"`

	// Pull request
	Files *FileStats `json:"files,omitempty"`
	Lines *LineStats `json:"lines,omitempty"`

	// Release
	Name       string `json:"name,omitempty"`
	Prerelease bool   `json:"prerelease,omitempty"`
	Draft      bool   `json:"draft,omitempty"`
}

// Feed is the assembled output: an ordered, reverse-chronological
// sequence of activity records capped at the configured limit.
type Feed struct {
	Timestamps bool             `json:"timestamps"`
	Events     []ActivityRecord `json:"events"`
}
