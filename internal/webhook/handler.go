// Package webhook receives Jira Cloud webhooks and turns a To Do → In
// Progress transition into a coding-agent launch.
package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clintrovert/sarek/internal/agent"
	"github.com/clintrovert/sarek/internal/jira"
	"github.com/clintrovert/sarek/internal/prompt"
)

const (
	// WebhookIDHeader carries Jira's delivery identifier, used for dedupe.
	WebhookIDHeader = "X-Atlassian-Webhook-Identifier"
	// SignatureHeader carries the HMAC signature of the request body.
	SignatureHeader = "X-Hub-Signature"
)

// Launcher dispatches agent launches without blocking the caller.
type Launcher interface {
	Launch(opts agent.LaunchOptions)
}

// Commenter posts a note back to the Jira issue. Optional.
type Commenter interface {
	AddComment(issueKey, comment string) error
}

// Handler processes Jira webhook deliveries.
type Handler struct {
	secret      string
	jiraBaseURL string
	repoField   string
	store       *DedupeStore
	launcher    Launcher
	commenter   Commenter // nil when no Jira credentials are configured
	logger      *zap.Logger
}

// HandlerOptions configure a Handler.
type HandlerOptions struct {
	// Secret enables signature verification when non-empty.
	Secret string
	// JiraBaseURL enables ticket links in the prompt when non-empty.
	JiraBaseURL string
	// RepoField is the Jira field key carrying the repository override.
	RepoField string
	// Commenter, when non-nil, receives a launch note per dispatched agent.
	Commenter Commenter
}

// NewHandler creates a new webhook handler.
func NewHandler(opts HandlerOptions, store *DedupeStore, launcher Launcher, logger *zap.Logger) *Handler {
	return &Handler{
		secret:      opts.Secret,
		jiraBaseURL: opts.JiraBaseURL,
		repoField:   opts.RepoField,
		store:       store,
		launcher:    launcher,
		commenter:   opts.Commenter,
		logger:      logger,
	}
}

// webhookResponse acknowledges a delivery. Jira retries anything that is
// not a 2xx, so every non-auth-failure path returns this with a 200.
type webhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleJiraWebhook handles POST /webhooks/jira.
func (h *Handler) HandleJiraWebhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("failed to read webhook body", zap.Error(err))
		rawBody = nil
	}

	if h.secret != "" {
		if len(rawBody) == 0 || !VerifySignature(h.secret, rawBody, r.Header.Get(SignatureHeader)) {
			h.logger.Warn("jira webhook signature missing or invalid")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
	}

	webhookID := r.Header.Get(WebhookIDHeader)

	if webhookID != "" && h.store.Has(webhookID) {
		h.logger.Info("jira webhook duplicate (deduplicated)",
			zap.String("webhook_id", webhookID),
		)
		writeJSON(w, http.StatusOK, webhookResponse{Received: true, Duplicate: true})
		return
	}

	// Recorded before processing: a crash past this point drops one
	// delivery rather than double-launching an agent on Jira's retry.
	if webhookID != "" {
		h.store.Add(webhookID)
	}

	var payload jira.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		h.logger.Warn("failed to parse webhook payload", zap.Error(err))
	}

	transition := jira.DetectTransition(&payload)
	if transition.Detected {
		h.processTransition(transition, &payload)
	}

	writeJSON(w, http.StatusOK, webhookResponse{Received: true})
}

// processTransition builds the prompt and dispatches the agent launch for a
// detected To Do → In Progress transition.
func (h *Handler) processTransition(transition jira.TransitionResult, payload *jira.WebhookPayload) {
	h.logger.Info("DO IT!",
		zap.String("issue_key", transition.IssueKey),
		zap.String("from", transition.From),
		zap.String("to", transition.To),
	)

	p := prompt.FromPayload(payload, prompt.Options{
		JiraBaseURL: h.jiraBaseURL,
		RepoField:   h.repoField,
	})
	if p == nil {
		h.logger.Info("cursor agent skipped: no summary or description in payload",
			zap.String("issue_key", transition.IssueKey),
		)
		return
	}

	h.launcher.Launch(agent.LaunchOptions{
		PromptText: p.Text,
		IssueKey:   p.IssueKey,
		Repo:       p.Repo,
	})

	if h.commenter != nil {
		go h.commentOnLaunch(p.IssueKey)
	}
}

// commentOnLaunch notes the dispatch on the issue. Runs detached; failures
// are logged and swallowed.
func (h *Handler) commentOnLaunch(issueKey string) {
	comment := fmt.Sprintf("Coding agent launch requested for %s.", issueKey)
	if err := h.commenter.AddComment(issueKey, comment); err != nil {
		h.logger.Warn("failed to comment on jira issue",
			zap.String("issue_key", issueKey),
			zap.Error(err),
		)
	}
}

// RegisterRoutes registers the webhook routes. The misspelled alias matches
// an existing external webhook registration and must keep working.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhooks/jira", h.HandleJiraWebhook)
	r.Post("/webooks/jira", h.HandleJiraWebhook)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
