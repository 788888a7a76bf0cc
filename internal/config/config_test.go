package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.cursor.com/v0/agents", cfg.CursorAPIURL)
	assert.Equal(t, "main", cfg.CursorRef)
	assert.Equal(t, "gh_repo", cfg.JiraGHRepoField)
	assert.Equal(t, 10000, cfg.DedupeCapacity)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("CURSOR_REF", "develop")
	t.Setenv("JIRA_GH_REPO_FIELD", "customfield_10042")
	t.Setenv("DEDUPE_CAPACITY", "500")

	cfg := FromEnv()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "develop", cfg.CursorRef)
	assert.Equal(t, "customfield_10042", cfg.JiraGHRepoField)
	assert.Equal(t, 500, cfg.DedupeCapacity)
}

func TestFromEnv_BadCapacityFallsBack(t *testing.T) {
	t.Setenv("DEDUPE_CAPACITY", "not-a-number")
	assert.Equal(t, 10000, FromEnv().DedupeCapacity)

	t.Setenv("DEDUPE_CAPACITY", "-5")
	assert.Equal(t, 10000, FromEnv().DedupeCapacity)
}
