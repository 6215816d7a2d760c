// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying client and its transport.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// pushEventType is the event type GitHub reports for pushed commits.
const pushEventType = "PushEvent"

// ErrInvalidRepo is returned when a repository identifier is not of the form owner/name.
var ErrInvalidRepo = errors.New("repository must be of the form owner/name")

// Profile holds the counters read from a user's profile.
type Profile struct {
	Followers   int
	PublicRepos int
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchPushEventTimes returns the creation times of the user's public push
	// events created at or after since.
	FetchPushEventTimes(ctx context.Context, user string, since time.Time) ([]time.Time, error)
	FetchProfile(ctx context.Context, user string) (*Profile, error)
	FetchRepoStars(ctx context.Context, owner, name string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     logrus.FieldLogger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty baseURL targets api.github.com; otherwise it is treated as a GitHub Enterprise host.
func NewGitHubGateway(token, baseURL string, timeout time.Duration, logger logrus.FieldLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	restClient := github.NewClient(httpClient)
	if baseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub API URL %q: %w", baseURL, err)
		}
	}
	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

// ParseRepo splits an owner/name identifier.
func ParseRepo(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepo, fullName)
	}
	return owner, name, nil
}

func (g *GitHubGateway) FetchPushEventTimes(ctx context.Context, user string, since time.Time) ([]time.Time, error) {
	g.logger.Debugf("Fetching public events of %s since %s...", user, since.Format(time.RFC3339))
	opts := &github.ListOptions{PerPage: 100}
	var pushTimes []time.Time
	for {
		events, resp, err := g.restClient.Activity.ListEventsPerformedByUser(ctx, user, true, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list public events of %s: %w", user, err)
		}
		// Events are returned newest first, so an older event ends the scan.
		reachedOlder := false
		for _, event := range events {
			createdAt := event.GetCreatedAt().Time
			if createdAt.Before(since) {
				reachedOlder = true
				continue
			}
			if event.GetType() == pushEventType {
				pushTimes = append(pushTimes, createdAt)
			}
		}
		if reachedOlder || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of events...")
	}
	g.logger.Debugf("Found %d push events.", len(pushTimes))
	return pushTimes, nil
}

func (g *GitHubGateway) FetchProfile(ctx context.Context, user string) (*Profile, error) {
	g.logger.Debugf("Fetching profile of %s...", user)
	u, _, err := g.restClient.Users.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", user, err)
	}
	return &Profile{
		Followers:   u.GetFollowers(),
		PublicRepos: u.GetPublicRepos(),
	}, nil
}

func (g *GitHubGateway) FetchRepoStars(ctx context.Context, owner, name string) (int, error) {
	g.logger.Debugf("Fetching repository %s/%s...", owner, name)
	repo, _, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return repo.GetStargazersCount(), nil
}
