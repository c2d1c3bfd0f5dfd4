// Package keyword defines the read-only projections served by the monitoring
// backend. Every type here is an immutable snapshot: it is replaced wholesale
// on re-fetch and never mutated locally.
package keyword

// Flag is the server-side classification of a crawl outcome.
// The client never computes a flag, only renders it.
type Flag string

const (
	FlagGreen  Flag = "green"
	FlagYellow Flag = "yellow"
	FlagPurple Flag = "purple"
	FlagNone   Flag = "none"
)

// Valid reports whether f is one of the known flag values.
func (f Flag) Valid() bool {
	switch f {
	case FlagGreen, FlagYellow, FlagPurple, FlagNone:
		return true
	}
	return false
}

// Label returns the display label for a flag, "-" for empty or unknown.
func (f Flag) Label() string {
	switch f {
	case FlagGreen:
		return "GREEN"
	case FlagYellow:
		return "YELLOW"
	case FlagPurple:
		return "PURPLE"
	default:
		return "-"
	}
}

// Summary is the list-view projection of a keyword.
type Summary struct {
	ID          string  `json:"id"`
	Query       string  `json:"query"`
	Category    *string `json:"category,omitempty"`
	Status      string  `json:"status"`
	LatestFlag  *Flag   `json:"latest_flag,omitempty"`
	LatestRunAt *string `json:"latest_run_at,omitempty"`
}

// Detail is the detail-view projection, a superset of Summary's identity.
type Detail struct {
	ID            string     `json:"id"`
	Query         string     `json:"query"`
	Category      *string    `json:"category,omitempty"`
	Status        string     `json:"status"`
	TargetNames   []string   `json:"target_names"`
	TargetDomains []string   `json:"target_domains"`
	Notes         *string    `json:"notes,omitempty"`
	RecentRuns    []CrawlRun `json:"recent_runs"`
}

// CrawlRun is one crawl of a keyword with its SERP entries and HTTPS checks.
type CrawlRun struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Flag        *Flag             `json:"flag,omitempty"`
	StartedAt   string            `json:"started_at"`
	CompletedAt *string           `json:"completed_at,omitempty"`
	HTTPSIssues map[string]string `json:"https_issues,omitempty"`
	SerpEntries []SerpEntry       `json:"serp_entries"`
	HTTPChecks  []HTTPCheck       `json:"http_checks"`
}

// SerpEntry is one ranked search result from a crawl.
type SerpEntry struct {
	ID          string  `json:"id"`
	Rank        int     `json:"rank"`
	Page        int     `json:"page"`
	Title       string  `json:"title"`
	DisplayURL  string  `json:"display_url"`
	LandingURL  string  `json:"landing_url"`
	IsMatch     bool    `json:"is_match"`
	MatchReason *string `json:"match_reason,omitempty"`
}

// HTTPCheck is the HTTPS health probe result for one landing URL.
type HTTPCheck struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Protocol   string  `json:"protocol"`
	StatusCode *int    `json:"status_code,omitempty"`
	SSLValid   *bool   `json:"ssl_valid,omitempty"`
	SSLError   *string `json:"ssl_error,omitempty"`
}

// User is the authenticated account returned by identity verification.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
