package feed

import "github.com/vilaca/activity-feed/internal/api"

// Account types. Organization feeds keep events from every actor;
// user feeds keep only events performed by the subject.
const (
	AccountUser         = "user"
	AccountOrganization = "organization"
)

// Fetch modes.
const (
	ModeUser       = "user"
	ModeRepository = "repository"
)

// Visibility values.
const (
	VisibilityAll    = "all"
	VisibilityPublic = "public"
)

// FilterAll is the allow-list sentinel that keeps every record type.
const FilterAll = "all"

// Options carries every parameter of one feed assembly. It is immutable
// once built and passed explicitly into each classification call.
type Options struct {
	// Login is the subject whose activity is assembled.
	Login string
	// Account is AccountUser or AccountOrganization.
	Account string
	// Mode is ModeUser or ModeRepository.
	Mode string
	// Owner and Repo select the repository in ModeRepository.
	Owner string
	Repo  string

	// Days is accepted for compatibility but currently inert: no
	// recency filter is applied.
	Days int
	// Filter is the allow-list of record types, or [FilterAll].
	Filter []string
	// Ignored lists user logins whose items are dropped.
	Ignored []string
	// Limit caps the number of records returned.
	Limit int
	// Load is the number of raw events to request; pages = ceil(Load/100).
	Load int
	// Skipped lists repositories whose events are dropped.
	Skipped []string
	// Timestamps is passed through to the output document.
	Timestamps bool
	// Visibility is VisibilityAll or VisibilityPublic.
	Visibility string

	// Markdown is the rendering mode handed to the content renderer.
	Markdown string
	// Codelines caps visible code-block lines in rendered content.
	Codelines int

	// MaxConcurrency bounds the classification fan-out. Zero or
	// negative means DefaultMaxConcurrency.
	MaxConcurrency int
}

// DefaultMaxConcurrency bounds concurrent enrichment fetches.
const DefaultMaxConcurrency = api.MaxConcurrentRequests

// pages returns how many event pages Load asks for, ceil(Load/100).
// A non-positive Load asks for none.
func (o Options) pages() int {
	if o.Load <= 0 {
		return 0
	}
	return (o.Load + api.DefaultPageSize - 1) / api.DefaultPageSize
}

// typeAllowed reports whether the allow-list keeps a record type.
func (o Options) typeAllowed(recordType string) bool {
	for _, f := range o.Filter {
		if f == FilterAll || f == recordType {
			return true
		}
	}
	return false
}
