package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/suspenders-cli/suspenders/internal/branding"
)

const githubAPIBase = "https://api.github.com"

// Release is the subset of a GitHub release the check needs.
type Release struct {
	Tag       string    `json:"tag_name"`
	URL       string    `json:"html_url"`
	Published time.Time `json:"published_at"`
}

// Checker queries the latest release.
type Checker struct {
	current string
	client  *http.Client
	baseURL string
	repo    string
	now     func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) { ch.client = c }
}

// WithBaseURL points the checker at another GitHub API host.
func WithBaseURL(url string) Option {
	return func(ch *Checker) { ch.baseURL = strings.TrimRight(url, "/") }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(ch *Checker) { ch.now = now }
}

// NewChecker returns a Checker for the running version.
func NewChecker(current string, opts ...Option) *Checker {
	c := &Checker{
		current: current,
		client:  http.DefaultClient,
		baseURL: githubAPIBase,
		repo:    branding.GitHubRepo(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the most recent published release.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", branding.CLIName()+"-release-check")
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("no published release for %s", c.repo)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	default:
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}
	if rel.Tag == "" {
		return nil, fmt.Errorf("release has no tag")
	}
	return &rel, nil
}

// Refresh fetches the latest release, stores the outcome in dir and
// returns it.
func (c *Checker) Refresh(ctx context.Context, dir string) (*Status, error) {
	rel, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	newer, err := Newer(c.current, rel.Tag)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Current:         c.current,
		Latest:          rel.Tag,
		URL:             rel.URL,
		CheckedAt:       c.now(),
		UpdateAvailable: newer,
	}
	if err := SaveStatus(dir, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Newer reports whether latest is a higher version than current. Builds
// without a semantic version, such as "dev", never see an update.
func Newer(current, latest string) (bool, error) {
	cv, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, nil
	}
	lv, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing release version %q: %w", latest, err)
	}
	return lv.GreaterThan(cv), nil
}
