// Package agent launches Cursor cloud agents via the Cloud Agents API.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultAPIURL is the Cursor Cloud Agents launch endpoint.
const DefaultAPIURL = "https://api.cursor.com/v0/agents"

// branchSuffix is appended to the issue key to form the working branch.
const branchSuffix = "cursor"

// RepoVerifier optionally checks a repository reference before launch.
type RepoVerifier interface {
	RepoExists(ctx context.Context, repoURL string) bool
}

// Launcher dispatches one-shot agent launch requests. Launches are fire and
// forget: the caller is never blocked on, or informed of, the outcome.
type Launcher struct {
	apiURL      string
	apiKey      string
	defaultRepo string
	ref         string
	verifier    RepoVerifier
	httpClient  *http.Client
	logger      *zap.Logger
}

// Options configure a Launcher.
type Options struct {
	APIURL      string // defaults to DefaultAPIURL
	APIKey      string
	DefaultRepo string // used when the ticket carries no repository override
	Ref         string // base ref for the agent, defaults to "main"
	Verifier    RepoVerifier
}

// NewLauncher creates a new agent launcher.
func NewLauncher(opts Options, logger *zap.Logger) *Launcher {
	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	ref := opts.Ref
	if ref == "" {
		ref = "main"
	}

	return &Launcher{
		apiURL:      apiURL,
		apiKey:      opts.APIKey,
		defaultRepo: opts.DefaultRepo,
		ref:         ref,
		verifier:    opts.Verifier,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// LaunchOptions describe a single launch.
type LaunchOptions struct {
	PromptText string
	IssueKey   string
	Repo       string // repository URL from the ticket; overrides the default
}

// launchRequest is the Cloud Agents API request body.
type launchRequest struct {
	Prompt promptSpec  `json:"prompt"`
	Source sourceSpec  `json:"source"`
	Target *targetSpec `json:"target,omitempty"`
}

type promptSpec struct {
	Text string `json:"text"`
}

type sourceSpec struct {
	Repository string `json:"repository"`
	Ref        string `json:"ref"`
}

type targetSpec struct {
	BranchName   string `json:"branchName"`
	AutoCreatePR bool   `json:"autoCreatePr"`
}

// launchResponse is the subset of the API response we log.
type launchResponse struct {
	ID     string `json:"id"`
	Target struct {
		BranchName string `json:"branchName"`
	} `json:"target"`
}

// Launch dispatches an agent launch in the background and returns
// immediately. Missing credentials or repository are logged as a skip; all
// outcomes of the outbound call are logged and swallowed.
func (l *Launcher) Launch(opts LaunchOptions) {
	repository := opts.Repo
	if repository == "" {
		repository = l.defaultRepo
	}

	if l.apiKey == "" || repository == "" {
		l.logger.Info("cursor agent skipped: api key and repo (gh_repo on ticket or CURSOR_REPO) are required",
			zap.Bool("has_key", l.apiKey != ""),
			zap.Bool("has_repo", repository != ""),
			zap.String("issue_key", opts.IssueKey),
		)
		return
	}

	go l.dispatch(opts, repository)
}

// dispatch performs the single outbound launch call. It runs on its own
// goroutine and must not panic or propagate errors.
func (l *Launcher) dispatch(opts LaunchOptions, repository string) {
	ctx := context.Background()

	if l.verifier != nil && !l.verifier.RepoExists(ctx, repository) {
		l.logger.Warn("cursor agent skipped: repository does not exist",
			zap.String("repository", repository),
			zap.String("issue_key", opts.IssueKey),
		)
		return
	}

	body := launchRequest{
		Prompt: promptSpec{Text: opts.PromptText},
		Source: sourceSpec{Repository: repository, Ref: l.ref},
	}
	if opts.IssueKey != "" {
		body.Target = &targetSpec{
			BranchName:   opts.IssueKey + "/" + branchSuffix,
			AutoCreatePR: true,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		l.logger.Error("cursor agent request error",
			zap.String("issue_key", opts.IssueKey),
			zap.Error(err),
		)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiURL, bytes.NewReader(payload))
	if err != nil {
		l.logger.Error("cursor agent request error",
			zap.String("issue_key", opts.IssueKey),
			zap.Error(err),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(l.apiKey, "")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Error("cursor agent request error",
			zap.String("issue_key", opts.IssueKey),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		l.logger.Error("cursor agent launch failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
			zap.String("issue_key", opts.IssueKey),
		)
		return
	}

	var launched launchResponse
	_ = json.Unmarshal(respBody, &launched)

	l.logger.Info("cursor agent launched",
		zap.String("agent_id", launched.ID),
		zap.String("issue_key", opts.IssueKey),
		zap.String("branch_name", launched.Target.BranchName),
	)
}
