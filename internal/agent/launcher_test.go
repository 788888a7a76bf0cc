package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestLaunch_SkipsWithoutAPIKey(t *testing.T) {
	logger, logs := testLogger()
	launcher := NewLauncher(Options{DefaultRepo: "https://github.com/acme/widgets"}, logger)

	launcher.Launch(LaunchOptions{PromptText: "do it", IssueKey: "ENG-1"})

	entries := logs.FilterMessageSnippet("cursor agent skipped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].ContextMap()["has_key"])
	assert.Equal(t, true, entries[0].ContextMap()["has_repo"])
}

func TestLaunch_SkipsWithoutRepository(t *testing.T) {
	logger, logs := testLogger()
	launcher := NewLauncher(Options{APIKey: "key"}, logger)

	launcher.Launch(LaunchOptions{PromptText: "do it"})

	assert.Len(t, logs.FilterMessageSnippet("cursor agent skipped").All(), 1)
}

func TestDispatch_SendsLaunchRequest(t *testing.T) {
	var received launchRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "agent-123", "target": {"branchName": "ENG-1/cursor"}}`))
	}))
	defer server.Close()

	logger, logs := testLogger()
	launcher := NewLauncher(Options{
		APIURL: server.URL,
		APIKey: "key",
		Ref:    "develop",
	}, logger)

	launcher.dispatch(LaunchOptions{
		PromptText: "Implement the following from Jira ENG-1:\n\n**Summary:** Fix bug",
		IssueKey:   "ENG-1",
	}, "https://github.com/acme/widgets")

	// base64("key:")
	assert.Equal(t, "Basic a2V5Og==", authHeader)
	assert.Equal(t, "Implement the following from Jira ENG-1:\n\n**Summary:** Fix bug", received.Prompt.Text)
	assert.Equal(t, "https://github.com/acme/widgets", received.Source.Repository)
	assert.Equal(t, "develop", received.Source.Ref)
	require.NotNil(t, received.Target)
	assert.Equal(t, "ENG-1/cursor", received.Target.BranchName)
	assert.True(t, received.Target.AutoCreatePR)

	entries := logs.FilterMessage("cursor agent launched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "agent-123", entries[0].ContextMap()["agent_id"])
}

func TestDispatch_NoTargetWithoutIssueKey(t *testing.T) {
	var received launchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"id": "agent-123"}`))
	}))
	defer server.Close()

	logger, _ := testLogger()
	launcher := NewLauncher(Options{APIURL: server.URL, APIKey: "key"}, logger)

	launcher.dispatch(LaunchOptions{PromptText: "do it"}, "https://github.com/acme/widgets")

	assert.Nil(t, received.Target)
	assert.Equal(t, "main", received.Source.Ref)
}

func TestDispatch_LogsFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad prompt"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	logger, logs := testLogger()
	launcher := NewLauncher(Options{APIURL: server.URL, APIKey: "key"}, logger)

	launcher.dispatch(LaunchOptions{PromptText: "do it", IssueKey: "ENG-1"}, "https://github.com/acme/widgets")

	entries := logs.FilterMessage("cursor agent launch failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusBadRequest), entries[0].ContextMap()["status"])
}

func TestDispatch_LogsTransportError(t *testing.T) {
	logger, logs := testLogger()
	// Nothing listens here.
	launcher := NewLauncher(Options{APIURL: "http://127.0.0.1:1", APIKey: "key"}, logger)

	launcher.dispatch(LaunchOptions{PromptText: "do it", IssueKey: "ENG-1"}, "https://github.com/acme/widgets")

	assert.Len(t, logs.FilterMessage("cursor agent request error").All(), 1)
}

type staticVerifier struct{ exists bool }

func (v staticVerifier) RepoExists(ctx context.Context, repoURL string) bool { return v.exists }

func TestDispatch_VerifierBlocksMissingRepo(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	logger, logs := testLogger()
	launcher := NewLauncher(Options{
		APIURL:   server.URL,
		APIKey:   "key",
		Verifier: staticVerifier{exists: false},
	}, logger)

	launcher.dispatch(LaunchOptions{PromptText: "do it", IssueKey: "ENG-1"}, "https://github.com/acme/missing")

	assert.False(t, called, "launch call must not be made for a missing repo")
	assert.Len(t, logs.FilterMessageSnippet("repository does not exist").All(), 1)
}
