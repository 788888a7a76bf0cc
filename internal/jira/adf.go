package jira

import (
	"fmt"
	"strings"
)

// ExtractText recursively extracts plain text from an ADF (Atlassian
// Document Format) node. The node is the decoded JSON shape of a doc,
// paragraph, text, etc. Unrecognized shapes yield an empty string; the
// function never fails on malformed input.
func ExtractText(node interface{}) string {
	m, ok := node.(map[string]interface{})
	if !ok {
		return ""
	}

	nodeType, _ := m["type"].(string)

	if nodeType == "text" {
		text, _ := m["text"].(string)
		return text
	}

	content, ok := m["content"].([]interface{})
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, child := range content {
		sb.WriteString(ExtractText(child))
	}

	switch nodeType {
	case "paragraph", "heading":
		return strings.TrimSpace(sb.String()) + "\n"
	case "listItem":
		return "- " + strings.TrimSpace(sb.String()) + "\n"
	default:
		return sb.String()
	}
}

// ToPlainText converts a Jira description field to plain text. The field
// may be a plain string or an ADF document depending on the API version.
func ToPlainText(description interface{}) string {
	if description == nil {
		return ""
	}

	if s, ok := description.(string); ok {
		return strings.TrimSpace(s)
	}

	if m, ok := description.(map[string]interface{}); ok {
		if docType, _ := m["type"].(string); docType == "doc" {
			return strings.TrimSpace(ExtractText(m))
		}
	}

	return strings.TrimSpace(fmt.Sprintf("%v", description))
}
