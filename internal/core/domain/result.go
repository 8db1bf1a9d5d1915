package domain

import "time"

// SourceType identifies the kind of backend a result came from.
type SourceType string

// Supported source types.
const (
	SourceCodeHost     SourceType = "codehost"
	SourceIssueTracker SourceType = "issuetracker"
	SourceWiki         SourceType = "wiki"
	SourceChat         SourceType = "chat"
	SourceWeb          SourceType = "web"
	SourceAI           SourceType = "ai"
)

// IsValid reports whether the source type is one of the supported values.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceCodeHost, SourceIssueTracker, SourceWiki, SourceChat, SourceWeb, SourceAI:
		return true
	}
	return false
}

// Result is the canonical search result consumed uniformly regardless of
// originating service. All fields except Starred are recomputed fresh per
// request; Starred is round-tripped from an external store keyed by ID.
type Result struct {
	// ID is unique within a single response.
	ID string `json:"id"`

	// SourceType identifies the originating backend kind.
	SourceType SourceType `json:"source_type"`

	// Source is the display label (e.g. "GitHub", "Jira").
	Source string `json:"source"`

	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Author  string `json:"author"`

	// Date is when the underlying item was created or last updated.
	Date time.Time `json:"date"`

	// RelevanceScore is in [0,1]. Adapter-supplied when available,
	// otherwise derived from query term overlap.
	RelevanceScore float64 `json:"relevance_score"`

	// ScoreKnown reports whether RelevanceScore was adapter-supplied.
	// When false the ranker substitutes a term-overlap fallback score.
	// Internal bookkeeping, not serialised.
	ScoreKnown bool `json:"-"`

	Tags []string `json:"tags,omitempty"`

	// Starred is owned by an external store and merely round-tripped here.
	Starred bool `json:"starred"`

	KeyPoints []string `json:"key_points,omitempty"`
	Summary   string   `json:"summary,omitempty"`

	// Metadata carries source-specific structured data, preserved
	// losslessly.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata is a tagged union keyed by SourceType. Exactly one variant is
// populated; the others are nil.
type Metadata struct {
	CodeHost     *CodeHostMetadata     `json:"codehost,omitempty"`
	IssueTracker *IssueTrackerMetadata `json:"issuetracker,omitempty"`
	AI           *AIMetadata           `json:"ai,omitempty"`
}

// CodeHostMetadata carries repository-level detail from a code host.
type CodeHostMetadata struct {
	Repository string   `json:"repository,omitempty"`
	Language   string   `json:"language,omitempty"`
	Stars      int      `json:"stars,omitempty"`
	State      string   `json:"state,omitempty"`
	Path       string   `json:"path,omitempty"`
	Labels     []string `json:"labels,omitempty"`
}

// IssueTrackerMetadata carries issue detail from an issue tracker.
type IssueTrackerMetadata struct {
	Status       string              `json:"status,omitempty"`
	Priority     string              `json:"priority,omitempty"`
	IssueType    string              `json:"issue_type,omitempty"`
	ProjectKey   string              `json:"project_key,omitempty"`
	Assignee     string              `json:"assignee,omitempty"`
	Reporter     string              `json:"reporter,omitempty"`
	Created      time.Time           `json:"created,omitempty"`
	Updated      time.Time           `json:"updated,omitempty"`
	PullRequests *PullRequestRollup  `json:"pull_requests,omitempty"`
	StoryPoints  int                 `json:"story_points,omitempty"`
	TimeTracking *TimeTrackingDetail `json:"time_tracking,omitempty"`
}

// PullRequestRollup aggregates pull requests linked to an issue.
// The full detail list is retained even though consumers may display
// only a subset.
type PullRequestRollup struct {
	Total    int              `json:"total"`
	Open     int              `json:"open"`
	Merged   int              `json:"merged"`
	Declined int              `json:"declined"`
	Details  []PullRequestRef `json:"details,omitempty"`
}

// PullRequestRef identifies one linked pull request.
type PullRequestRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

// TimeTrackingDetail carries issue time tracking fields.
type TimeTrackingDetail struct {
	OriginalEstimate  string `json:"original_estimate,omitempty"`
	TimeSpent         string `json:"time_spent,omitempty"`
	RemainingEstimate string `json:"remaining_estimate,omitempty"`
}

// AIMetadata identifies the model that produced an AI result.
type AIMetadata struct {
	Model string `json:"model"`
}
