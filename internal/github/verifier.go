package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Verifier checks that a repository referenced by a Jira ticket actually
// exists before an agent is launched against it. Custom-field values are
// hand-typed, so a typoed repo would otherwise only surface as a launch
// failure inside the agent service.
type Verifier struct {
	apiClient *github.Client
	logger    *zap.Logger
}

// NewVerifier creates a new repository verifier authenticated with the
// given access token.
func NewVerifier(accessToken string, logger *zap.Logger) *Verifier {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Verifier{
		apiClient: github.NewClient(tc),
		logger:    logger,
	}
}

// RepoExists reports whether the repository behind a github.com URL exists
// and is accessible. The check is best effort: non-GitHub URLs and API
// failures other than a definite 404 report true so that a flaky GitHub API
// never blocks a launch.
func (v *Verifier) RepoExists(ctx context.Context, repoURL string) bool {
	owner, name, ok := SplitGitHubURL(repoURL)
	if !ok {
		return true
	}

	_, resp, err := v.apiClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			v.logger.Warn("repository not found on github",
				zap.String("owner", owner),
				zap.String("repo", name),
			)
			return false
		}
		v.logger.Warn("repository verification failed, proceeding anyway",
			zap.String("repo_url", repoURL),
			zap.Error(err),
		)
		return true
	}

	return true
}

// SplitGitHubURL extracts the owner and repository name from a
// https://github.com/owner/repo URL. ok is false for any other URL shape.
func SplitGitHubURL(repoURL string) (owner, name string, ok bool) {
	rest, found := strings.CutPrefix(repoURL, "https://github.com/")
	if !found {
		return "", "", false
	}
	rest = strings.TrimSuffix(strings.TrimSuffix(rest, "/"), ".git")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
