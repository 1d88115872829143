package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub REST API endpoint
const DefaultBaseURL = "https://api.github.com/"

// tokenType selects GitHub's "Authorization: token <token>" scheme
const tokenType = "token"

// ClientOptions configures a Client
type ClientOptions struct {
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise or tests
	BaseURL string

	// Timeout bounds each call. Zero means no timeout.
	Timeout time.Duration

	// RateLimiter paces calls. Nil disables pacing.
	RateLimiter *RateLimiter

	// HTTPClient supplies the base transport under the token transport
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client implements the Caller interface using the GitHub REST API
type Client struct {
	client  *github.Client
	http    *http.Client
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewClient creates a new API client acting as creds.Owner with creds.Token
func NewClient(creds Credentials, opts ClientOptions) (*Client, error) {
	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: creds.Token, TokenType: tokenType},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = opts.Timeout

	gh := github.NewClient(tc)
	gh.UserAgent = creds.Owner

	if opts.BaseURL != "" {
		baseURL := opts.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		client:  gh,
		http:    tc,
		limiter: opts.RateLimiter,
		logger:  logger,
	}, nil
}

// Call issues one request and normalizes its outcome: a parsed JSON body,
// a nil body for 204 No Content, or an error
func (c *Client) Call(ctx context.Context, r *Request) (json.RawMessage, error) {
	req, err := c.client.NewRequest(r.Method, r.Path, r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", r.Method, r.Path, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Method: r.Method, Path: r.Path, Err: err}
	}

	c.logger.Debug("Making HTTP request", "method", r.Method, "path", r.Path)

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &TransportError{Method: r.Method, Path: r.Path, Err: err}
	}
	defer resp.Body.Close()

	c.limiter.Update(resp.Header)

	c.logger.Debug("Received HTTP response", "method", r.Method, "path", r.Path, "status", resp.StatusCode)

	if hasNextPage(resp.Header) {
		c.logger.Warn("Response is paginated; only the first page is used", "path", r.Path)
	}

	return parseResponse(r, resp)
}

// parseResponse classifies a response by status code and body
func parseResponse(r *Request, resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Method: r.Method,
			Path:   r.Path,
			Err:    fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
		}
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Message: payload.Message}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
	}

	return raw, nil
}

// hasNextPage reports whether a Link header points at a further page
func hasNextPage(header http.Header) bool {
	for _, link := range strings.Split(header.Get("Link"), ",") {
		if strings.Contains(link, `rel="next"`) {
			return true
		}
	}
	return false
}
