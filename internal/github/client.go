package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL       = "https://api.github.com"
	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "spigell/hireflow"
)

// Client is a read-only GitHub REST API client. Public profile data needs no
// token, but one can be supplied to raise the rate limit.
type Client struct {
	APIURL     string
	HTTPClient *http.Client
	token      string
	logger     *zap.Logger
}

// User is the subset of the users endpoint the verifier needs.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	PublicRepos int    `json:"public_repos"`
}

// Repo is the subset of the repos endpoint the verifier needs.
type Repo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	UpdatedAt   string `json:"updated_at"`
}

func New(token string, logger *zap.Logger) *Client {
	return &Client{
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		token:  token,
		logger: logger,
	}
}

// GetUser fetches the public profile for a handle.
func (c *Client) GetUser(ctx context.Context, handle string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.APIURL, url.PathEscape(handle)), &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetRepos fetches public repositories for a handle, most recently updated first.
func (c *Client) GetRepos(ctx context.Context, handle string) ([]Repo, error) {
	u := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=30", c.APIURL, url.PathEscape(handle))

	var repos []Repo
	if err := c.getJSON(ctx, u, &repos); err != nil {
		return nil, err
	}

	return repos, nil
}

// NormalizeHandle reduces a full profile URL to a bare handle.
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if idx := strings.Index(handle, "github.com/"); idx >= 0 {
		handle = handle[idx+len("github.com/"):]
	}

	return strings.Trim(handle, "/")
}

func (c *Client) getJSON(ctx context.Context, u string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return err
	}

	return nil
}
