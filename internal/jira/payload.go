package jira

// WebhookPayload represents the standard Jira webhook payload structure
type WebhookPayload struct {
	Timestamp    int64      `json:"timestamp"`
	WebhookEvent string     `json:"webhookEvent"`
	Issue        *Issue     `json:"issue,omitempty"`
	Changelog    *Changelog `json:"changelog,omitempty"`
}

// Issue represents a Jira issue in the webhook
type Issue struct {
	ID     string                 `json:"id"`
	Self   string                 `json:"self"`
	Key    string                 `json:"key"`
	Fields map[string]interface{} `json:"fields"`
}

// Changelog represents changes made in a Jira issue update
type Changelog struct {
	ID    string          `json:"id"`
	Items []ChangelogItem `json:"items"`
}

// ChangelogItem represents a single change in a Jira changelog
type ChangelogItem struct {
	Field      string `json:"field"`
	Fieldtype  string `json:"fieldtype"`
	From       string `json:"from"`
	FromString string `json:"fromString"`
	To         string `json:"to"`
	ToString   string `json:"toString"`
}

// EventIssueUpdated is the webhook event name Jira sends for issue updates.
const EventIssueUpdated = "jira:issue_updated"
