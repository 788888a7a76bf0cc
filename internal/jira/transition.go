package jira

import (
	"strings"
)

// TransitionResult describes the outcome of inspecting a webhook payload
// for a To Do → In Progress status change.
type TransitionResult struct {
	Detected bool
	IssueKey string
	From     string
	To       string
}

var (
	todoAliases       = []string{"to do", "todo", "to_do"}
	inProgressAliases = []string{"in progress", "inprogress", "in_progress"}
)

// DetectTransition reports whether an issue_updated payload represents a
// status change from To Do to In Progress. Jira installations render the
// status names inconsistently ("To Do", "TODO", "to_do"), so matching is
// tolerant of casing, surrounding whitespace, and space/underscore
// separators. Only the first status entry in the changelog is considered.
func DetectTransition(payload *WebhookPayload) TransitionResult {
	if payload == nil || payload.WebhookEvent != EventIssueUpdated {
		return TransitionResult{}
	}

	var issueKey string
	if payload.Issue != nil {
		issueKey = payload.Issue.Key
	}

	var statusChange *ChangelogItem
	if payload.Changelog != nil {
		for i := range payload.Changelog.Items {
			if payload.Changelog.Items[i].Field == "status" {
				statusChange = &payload.Changelog.Items[i]
				break
			}
		}
	}

	if statusChange == nil {
		return TransitionResult{IssueKey: issueKey}
	}

	from := statusChange.FromString
	if from == "" {
		from = statusChange.From
	}
	to := statusChange.ToString
	if to == "" {
		to = statusChange.To
	}

	if matchesStatus(from, todoAliases) && matchesStatus(to, inProgressAliases) {
		return TransitionResult{
			Detected: true,
			IssueKey: issueKey,
			From:     from,
			To:       to,
		}
	}

	return TransitionResult{IssueKey: issueKey}
}

// normalizeStatus lower-cases a status name, trims it, and collapses
// internal whitespace runs to a single space.
func normalizeStatus(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// stripSeparators removes spaces and underscores. Hyphenated variants like
// "To-Do" are deliberately not collapsed.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return -1
		}
		return r
	}, s)
}

func matchesStatus(name string, aliases []string) bool {
	n := normalizeStatus(name)
	for _, a := range aliases {
		if n == a || stripSeparators(n) == stripSeparators(a) {
			return true
		}
	}
	return false
}
