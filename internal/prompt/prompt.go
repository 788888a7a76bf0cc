// Package prompt builds a plain-text instruction prompt for the coding
// agent from a Jira issue_updated webhook payload.
package prompt

import (
	"regexp"
	"strings"

	"github.com/clintrovert/sarek/internal/jira"
)

// Prompt is the instruction text extracted from a Jira issue, plus the
// metadata needed to target the agent launch.
type Prompt struct {
	Text     string
	IssueKey string
	Repo     string
}

// Options control prompt composition.
type Options struct {
	// JiraBaseURL, when set, appends an instruction to link the ticket in
	// the pull request description.
	JiraBaseURL string
	// RepoField is the Jira field key carrying the repository override
	// (e.g. "gh_repo" or "customfield_10042").
	RepoField string
}

// DefaultRepoField is the Jira field consulted for a repository override
// when Options.RepoField is empty.
const DefaultRepoField = "gh_repo"

var repoShorthand = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// NormalizeRepoURL normalizes a repository value from Jira ("org/repo" or a
// full URL) to a full URL. Returns "" when the value is not usable.
func NormalizeRepoURL(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if repoShorthand.MatchString(s) {
		return "https://github.com/" + s
	}
	return ""
}

// FromPayload builds the prompt from a webhook payload. Returns nil when
// the payload carries no issue key or no usable text.
func FromPayload(payload *jira.WebhookPayload, opts Options) *Prompt {
	if payload == nil || payload.Issue == nil || payload.Issue.Key == "" {
		return nil
	}
	issueKey := payload.Issue.Key
	fields := payload.Issue.Fields

	var summary string
	if s, ok := fields["summary"].(string); ok {
		summary = strings.TrimSpace(s)
	}
	description := jira.ToPlainText(fields["description"])

	var parts []string
	if summary != "" {
		parts = append(parts, "**Summary:** "+summary)
	}
	if description != "" {
		parts = append(parts, "**Description:**\n"+description)
	}

	if len(parts) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Implement the following from Jira " + issueKey + ":\n\n")
	sb.WriteString(strings.Join(parts, "\n\n"))

	if opts.JiraBaseURL != "" {
		ticketURL := strings.TrimSuffix(opts.JiraBaseURL, "/") + "/browse/" + issueKey
		sb.WriteString("\n\nIn the pull request description, include a link to the Jira ticket: " + ticketURL)
	}

	repoField := opts.RepoField
	if repoField == "" {
		repoField = DefaultRepoField
	}

	return &Prompt{
		Text:     strings.TrimSpace(sb.String()),
		IssueKey: issueKey,
		Repo:     repoFromField(fields[repoField]),
	}
}

// repoFromField unwraps a repository value from a Jira field. Select-list
// custom fields arrive as {"value": "..."} objects rather than strings.
func repoFromField(value interface{}) string {
	if m, ok := value.(map[string]interface{}); ok {
		value = m["value"]
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return NormalizeRepoURL(s)
}
