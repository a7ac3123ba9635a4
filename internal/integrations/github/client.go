// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-19
// Last Modified: 2026-08-23

// Package github wraps the GitHub REST API for the bot: paginated status,
// pull and issue listings filtered through the test plan, with transparent
// retry, response caching and access logging on the transport.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/testplanhq/testplan-bot/internal/testplan"
)

// Status descriptions understood by the webhook and the runners. A webhook
// pull request event seeds every context with NotTested; a status event
// carrying NotTestedDirect publishes a test task for that one context.
const (
	Testing         = "Testing in progress"
	NoTesting       = "Manual testing required"
	NotTested       = "Not yet tested"
	NotTestedDirect = "Not yet tested (direct trigger)"
)

// Options configure a Client.
type Options struct {
	// Repo is the "owner/name" slug the client is bound to. Required.
	Repo string

	// Token authenticates API calls. Empty means DiscoverToken, and an
	// unauthenticated client if that finds nothing either.
	Token string

	// Validator filters Statuses results. Nil accepts every context.
	Validator *testplan.Validator

	// CacheDir overrides the XDG cache location. DisableCache skips the
	// read-through cache and access log entirely (used by tests).
	CacheDir     string
	DisableCache bool

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	// Must end with a slash.
	BaseURL string

	Retry RetryConfig
}

// Client is a GitHub API wrapper bound to one repository.
type Client struct {
	gh        *github.Client
	owner     string
	name      string
	repo      string
	validator *testplan.Validator
	cache     *Cache
}

// NewClient builds a Client with the retry, cache and access-log transports
// stacked under go-github.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	owner, name, ok := strings.Cut(opts.Repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository slug %q: expected owner/name", opts.Repo)
	}

	token := opts.Token
	if token == "" {
		token = DiscoverToken()
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}

	var transport http.RoundTripper = http.DefaultTransport
	if token != "" {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	transport = &retryTransport{next: transport, cfg: retry}

	c := &Client{
		owner:     owner,
		name:      name,
		repo:      opts.Repo,
		validator: opts.Validator,
	}

	if !opts.DisableCache {
		dir := opts.CacheDir
		if dir == "" {
			dir = filepath.Join(xdg.CacheHome, appDirName)
		}
		cache, err := NewCache(dir)
		if err != nil {
			return nil, err
		}
		c.cache = cache
		transport = &cacheTransport{next: transport, cache: cache}

		accessLog, err := NewAccessLog(dir)
		if err != nil {
			return nil, err
		}
		transport = &loggingTransport{next: transport, log: accessLog}
	}

	c.gh = github.NewClient(&http.Client{Transport: transport})
	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		c.gh.BaseURL = base
	}
	return c, nil
}

// Repo returns the bound "owner/name" slug.
func (c *Client) Repo() string { return c.repo }

// Statuses returns the newest status per context for a revision, dropping
// contexts the test plan does not define for this repository. The combined
// status endpoint returns newest first, so the first occurrence wins.
func (c *Client) Statuses(ctx context.Context, revision string) (map[string]*github.RepoStatus, error) {
	result := make(map[string]*github.RepoStatus)
	opts := &github.ListOptions{PerPage: 100}
	for {
		combined, resp, err := c.gh.Repositories.GetCombinedStatus(ctx, c.owner, c.name, revision, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch statuses for %s: %w", revision, err)
		}
		for _, status := range combined.Statuses {
			name := status.GetContext()
			if c.validator != nil && !c.validator.IsValidContext(name, c.repo) {
				continue
			}
			if _, seen := result[name]; !seen {
				result[name] = status
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

// AllStatuses returns every status reported for a revision, unfiltered and
// including superseded ones.
func (c *Client) AllStatuses(ctx context.Context, revision string) ([]*github.RepoStatus, error) {
	var result []*github.RepoStatus
	opts := &github.ListOptions{PerPage: 100}
	for {
		statuses, resp, err := c.gh.Repositories.ListStatuses(ctx, c.owner, c.name, revision, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list statuses for %s: %w", revision, err)
		}
		result = append(result, statuses...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

// CreateStatus reports a status for a revision.
func (c *Client) CreateStatus(ctx context.Context, revision string, status *github.RepoStatus) error {
	_, _, err := c.gh.Repositories.CreateStatus(ctx, c.owner, c.name, revision, status)
	if err != nil {
		return fmt.Errorf("failed to create status %q on %s: %w", status.GetContext(), revision, err)
	}
	return nil
}

// Pulls lists pull requests in the given state, newest first. A non-zero
// since drops pulls that were closed before it, and still-open pulls
// created before it.
func (c *Client) Pulls(ctx context.Context, state string, since time.Time) ([]*github.PullRequest, error) {
	var result []*github.PullRequest
	opts := &github.PullRequestListOptions{
		State:       state,
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		pulls, resp, err := c.gh.PullRequests.List(ctx, c.owner, c.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}
		for _, pull := range pulls {
			if !since.IsZero() {
				if closed := pull.ClosedAt; closed != nil && closed.Time.Before(since) {
					continue
				}
				if pull.ClosedAt == nil && pull.CreatedAt != nil && pull.CreatedAt.Time.Before(since) {
					continue
				}
			}
			result = append(result, pull)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

// Issues lists issues carrying all the given labels. A non-zero since
// restricts to issues updated after it.
func (c *Client) Issues(ctx context.Context, labels []string, state string, since time.Time) ([]*github.Issue, error) {
	var result []*github.Issue
	opts := &github.IssueListByRepoOptions{
		Labels:      labels,
		State:       state,
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, c.owner, c.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		result = append(result, issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

// Issue fetches one issue.
func (c *Client) Issue(ctx context.Context, number int) (*github.Issue, error) {
	issue, _, err := c.gh.Issues.Get(ctx, c.owner, c.name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	return issue, nil
}

// UpdateIssueBody rewrites an issue body (checklist updates).
func (c *Client) UpdateIssueBody(ctx context.Context, number int, body string) error {
	_, _, err := c.gh.Issues.Edit(ctx, c.owner, c.name, number, &github.IssueRequest{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("failed to update issue #%d: %w", number, err)
	}
	return nil
}

// HasOpenPRs reports whether any pull request containing the commit is
// still open. Unknown commits count as open so callers err on the side of
// keeping things alive.
func (c *Client) HasOpenPRs(ctx context.Context, sha string) (bool, error) {
	pulls, _, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, c.owner, c.name, sha, nil)
	if err != nil {
		return false, fmt.Errorf("failed to list pull requests for %s: %w", sha, err)
	}
	if len(pulls) == 0 {
		return true, nil
	}
	for _, pull := range pulls {
		if pull.GetState() == "open" {
			return true, nil
		}
	}
	return false, nil
}

// PRHead returns the head commit SHA of a pull request.
func (c *Client) PRHead(ctx context.Context, number int) (string, error) {
	pull, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.name, number)
	if err != nil {
		return "", fmt.Errorf("failed to fetch pull request #%d: %w", number, err)
	}
	return pull.GetHead().GetSHA(), nil
}

// ResolvePRBranch returns the head branch of a pull request. Implements
// testplan.PRBranchResolver; repo may name a repository other than the
// bound one.
func (c *Client) ResolvePRBranch(ctx context.Context, repo string, number int) (string, error) {
	owner, name := c.owner, c.name
	if repo != "" && repo != c.repo {
		var ok bool
		owner, name, ok = strings.Cut(repo, "/")
		if !ok {
			return "", fmt.Errorf("invalid repository slug %q", repo)
		}
	}
	pull, _, err := c.gh.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch for %s#%d: %w", repo, number, err)
	}
	return pull.GetHead().GetRef(), nil
}

// FileContent fetches a file from any repository at a ref (empty ref means
// the default branch). Used to load remote test plans and configs.
func (c *Client) FileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	content, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s:%s: %w", owner, repo, path, err)
	}
	if content == nil {
		return nil, fmt.Errorf("%s/%s:%s is not a file", owner, repo, path)
	}
	text, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s:%s: %w", owner, repo, path, err)
	}
	return []byte(text), nil
}
