package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/satococoa/forall/internal/command"
)

const (
	DefaultBaseURL = "https://api.github.com"
	userAgent      = "forall (https://github.com/satococoa/forall)"
	apiVersion     = "2022-11-28"
	perPage        = 100
)

// RequestLogger is notified of every request before it is sent.
type RequestLogger interface {
	Request(method, url string)
}

type nopLogger struct{}

func (nopLogger) Request(string, string) {}

// Client talks to the GitHub REST API
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	log     RequestLogger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root, such as a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRequestLogger sets where requests are logged.
func WithRequestLogger(l RequestLogger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
		token:   token,
		log:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a GitHub token from GH_TOKEN or GITHUB_TOKEN, falling back to
// `gh auth token`.
func Token(runner *command.Runner) (string, error) {
	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, nil
		}
	}
	token, err := runner.Output(command.New("gh").AddArgs("auth", "token").WithKind(command.KindInternal))
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("`gh auth token` printed nothing")
	}
	return token, nil
}

// Repository is the subset of a repository resource forall uses
type Repository struct {
	Repo          Repo
	URL           string
	HTMLURL       string
	DefaultBranch string
	Private       bool
	Archived      bool
}

// NewPullRequest is the payload for opening a pull request
type NewPullRequest struct {
	Title               string `json:"title"`
	Head                string `json:"head"`
	Base                string `json:"base"`
	Body                string `json:"body,omitempty"`
	MaintainerCanModify bool   `json:"maintainer_can_modify"`
}

// PullRequest is a created pull request
type PullRequest struct {
	Number  int
	URL     string
	HTMLURL string
}

// Label is the payload for creating a label
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// GetRepository fetches a repository.
func (c *Client) GetRepository(ctx context.Context, repo Repo) (*Repository, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.baseURL+repo.APIPath(), nil)
	if err != nil {
		return nil, err
	}
	r := gjson.ParseBytes(body)
	parsed, err := ParseRepo(r.Get("full_name").String())
	if err != nil {
		parsed = repo
	}
	return &Repository{
		Repo:          parsed,
		URL:           r.Get("url").String(),
		HTMLURL:       r.Get("html_url").String(),
		DefaultBranch: r.Get("default_branch").String(),
		Private:       r.Get("private").Bool(),
		Archived:      r.Get("archived").Bool(),
	}, nil
}

// CreatePullRequest opens a pull request.
func (c *Client) CreatePullRequest(ctx context.Context, repo Repo, pr NewPullRequest) (*PullRequest, error) {
	body, _, err := c.do(ctx, http.MethodPost, c.baseURL+repo.APIPath()+"/pulls", pr)
	if err != nil {
		return nil, err
	}
	r := gjson.ParseBytes(body)
	return &PullRequest{
		Number:  int(r.Get("number").Int()),
		URL:     r.Get("url").String(),
		HTMLURL: r.Get("html_url").String(),
	}, nil
}

// LabelNames lists the names of all labels defined in the repository,
// following pagination.
func (c *Client) LabelNames(ctx context.Context, repo Repo) ([]string, error) {
	var names []string
	next := fmt.Sprintf("%s%s/labels?per_page=%d", c.baseURL, repo.APIPath(), perPage)
	for next != "" {
		body, header, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}
		for _, name := range gjson.GetBytes(body, "#.name").Array() {
			names = append(names, name.String())
		}
		next = nextLink(header.Get("Link"))
	}
	return names, nil
}

// CreateLabel defines a new label.
func (c *Client) CreateLabel(ctx context.Context, repo Repo, label Label) error {
	_, _, err := c.do(ctx, http.MethodPost, c.baseURL+repo.APIPath()+"/labels", label)
	return err
}

// AddLabels applies labels to an issue or pull request.
func (c *Client) AddLabels(ctx context.Context, repo Repo, number int, labels []string) error {
	url := fmt.Sprintf("%s%s/issues/%d/labels", c.baseURL, repo.APIPath(), number)
	_, _, err := c.do(ctx, http.MethodPost, url, labels)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Request(method, url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s request to %s failed: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, nil, newStatusError(method, url, resp, body)
	}
	return body, resp.Header, nil
}
