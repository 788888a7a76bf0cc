package config

import (
	"os"
	"strconv"
)

// Config holds the service configuration, read from environment variables.
type Config struct {
	// Server configuration
	Port string

	// Cursor agent configuration
	CursorAPIKey string
	CursorAPIURL string
	CursorRepo   string
	CursorRef    string

	// Jira configuration
	JiraBaseURL       string
	JiraUsername      string
	JiraAPIToken      string
	JiraWebhookSecret string
	JiraGHRepoField   string

	// GitHub configuration (optional, enables repo verification)
	GitHubToken string

	// Webhook dedupe configuration
	DedupeCapacity int
}

// FromEnv creates a configuration with values from environment variables.
func FromEnv() *Config {
	capacity, err := strconv.Atoi(getEnv("DEDUPE_CAPACITY", "10000"))
	if err != nil || capacity <= 0 {
		capacity = 10000
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		CursorAPIKey: getEnv("CURSOR_API_KEY", ""),
		CursorAPIURL: getEnv("CURSOR_API_URL", "https://api.cursor.com/v0/agents"),
		CursorRepo:   getEnv("CURSOR_REPO", ""),
		CursorRef:    getEnv("CURSOR_REF", "main"),

		JiraBaseURL:       getEnv("JIRA_BASE_URL", ""),
		JiraUsername:      getEnv("JIRA_USERNAME", ""),
		JiraAPIToken:      getEnv("JIRA_API_TOKEN", ""),
		JiraWebhookSecret: getEnv("JIRA_WEBHOOK_SECRET", ""),
		JiraGHRepoField:   getEnv("JIRA_GH_REPO_FIELD", "gh_repo"),

		GitHubToken: getEnv("GITHUB_TOKEN", ""),

		DedupeCapacity: capacity,
	}
}

// getEnv returns the value of the environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
