package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/suqingyao/oawesome/logger"

	"go.uber.org/zap"
)

// Staleness budgets per upstream resource class.
const (
	repoTTL         = 5 * time.Minute
	commitsTTL      = 5 * time.Minute
	contributorsTTL = 60 * time.Minute
	contentsTTL     = 60 * time.Minute
)

// userAgent is the fixed client identifier sent on every request.
const userAgent = "oawesome-app"

// defaultListLimit applies when callers pass a non-positive limit.
const defaultListLimit = 10

// StatusError is returned when the GitHub API responds with a non-2xx
// status. Callers decide whether the failure is fatal or recoverable.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github api: status code %d for %s", e.Status, e.URL)
}

// Client represents a GitHub API client
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    *url.URL
	cache      *responseCache
}

// RepoResponse mirrors the repository resource of the GitHub API.
type RepoResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	HTMLURL         string   `json:"html_url"`
	Language        string   `json:"language"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	WatchersCount   int      `json:"watchers_count"`
	Size            int      `json:"size"`
	Topics          []string `json:"topics"`
	License         *struct {
		Name string `json:"name"`
	} `json:"license"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ContributorResponse mirrors one entry of the contributors listing.
type ContributorResponse struct {
	ID            int64  `json:"id"`
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
}

// CommitResponse mirrors one entry of the commits listing.
type CommitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// ContentResponse mirrors the contents resource for a single file.
type ContentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Decode returns the base64-decoded file content. The contents API wraps
// base64 payloads across multiple lines, so embedded newlines are
// stripped before decoding.
func (c *ContentResponse) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.ReplaceAll(c.Content, "\n", ""))
}

// NewClient creates a GitHub API client. The token is optional; an empty
// token sends unauthenticated requests at lower rate limits.
func NewClient(token, baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	logger.Info("Initializing GitHub client",
		zap.String("base_url", u.String()),
		zap.Bool("authenticated", token != ""))
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    u,
		cache:      newResponseCache(),
	}, nil
}

// FetchRepo fetches the repository resource for owner/name.
func (c *Client) FetchRepo(ctx context.Context, owner, name string) (*RepoResponse, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("owner and name must be non-empty")
	}

	var repo RepoResponse
	path := fmt.Sprintf("/repos/%s/%s", owner, name)
	if err := c.get(ctx, path, nil, repoTTL, &repo); err != nil {
		logger.Error("Failed to fetch repository",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("name", name))
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, err)
	}

	logger.Info("Fetched repository",
		zap.String("owner", owner),
		zap.String("name", name),
		zap.String("language", repo.Language),
		zap.Int("stars", repo.StargazersCount))

	return &repo, nil
}

// FetchContributors fetches up to limit contributors, in the upstream
// order (descending by contribution count).
func (c *Client) FetchContributors(ctx context.Context, owner, name string, limit int) ([]ContributorResponse, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("owner and name must be non-empty")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := url.Values{}
	q.Set("per_page", strconv.Itoa(limit))

	var contributors []ContributorResponse
	path := fmt.Sprintf("/repos/%s/%s/contributors", owner, name)
	if err := c.get(ctx, path, q, contributorsTTL, &contributors); err != nil {
		logger.Error("Failed to fetch contributors",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("name", name))
		return nil, fmt.Errorf("failed to fetch contributors for %s/%s: %w", owner, name, err)
	}
	return contributors, nil
}

// FetchCommits fetches up to limit of the most recent commits.
func (c *Client) FetchCommits(ctx context.Context, owner, name string, limit int) ([]CommitResponse, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("owner and name must be non-empty")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := url.Values{}
	q.Set("per_page", strconv.Itoa(limit))

	var commits []CommitResponse
	path := fmt.Sprintf("/repos/%s/%s/commits", owner, name)
	if err := c.get(ctx, path, q, commitsTTL, &commits); err != nil {
		logger.Error("Failed to fetch commits",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("name", name))
		return nil, fmt.Errorf("failed to fetch commits for %s/%s: %w", owner, name, err)
	}
	return commits, nil
}

// FetchFileContents fetches a single file from the repository's default
// branch via the contents API.
func (c *Client) FetchFileContents(ctx context.Context, owner, name, filePath string) (*ContentResponse, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("owner and name must be non-empty")
	}

	var content ContentResponse
	path := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, name, filePath)
	if err := c.get(ctx, path, nil, contentsTTL, &content); err != nil {
		logger.Debug("Failed to fetch file contents",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("name", name),
			zap.String("path", filePath))
		return nil, fmt.Errorf("failed to fetch contents %s for %s/%s: %w", filePath, owner, name, err)
	}
	return &content, nil
}

// get performs a cached GET against the API and decodes the JSON body
// into v. Fresh responses are stored under the request URL for ttl.
func (c *Client) get(ctx context.Context, path string, query url.Values, ttl time.Duration, v any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		reqURL.RawQuery = query.Encode()
	}
	key := reqURL.String()

	if body, ok := c.cache.get(key); ok {
		return json.Unmarshal(body, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Status: resp.StatusCode, URL: key}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.cache.set(key, body, ttl)
	return nil
}
