package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/graphmail/internal/logger"
)

// Microsoft Graph API base URL.
const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Client issues authenticated requests against the Microsoft Graph API.
// Paths are relative to the scoped mailbox: an empty user targets /me,
// any other value targets /users/{user}.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenProvider
	rateLimiter *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the default rate limit configuration.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.rateLimiter = NewRateLimiterWithConfig(cfg) }
}

// NewClient creates a Graph client using the given token provider.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		tokens:      tokens,
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the client's token provider.
func (c *Client) Tokens() TokenProvider {
	return c.tokens
}

// Get issues a GET request for the given mailbox-relative path.
func (c *Client) Get(ctx context.Context, user, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, user, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, user, path string, body []byte) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, user, path, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, user, path string, body []byte) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, user, path, body)
}

func (c *Client) do(ctx context.Context, method, user, path string, body []byte) (json.RawMessage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	u := c.baseURL + "/" + userSegment(user)
	switch {
	case path == "":
	case path[0] == '?':
		u += path
	default:
		u += "/" + path
	}

	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debugf("graph: %s %s", method, u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			c.rateLimiter.RecordRateLimitError(retryAfter)
		}
		return nil, decodeAPIError(resp.StatusCode, respBody)
	}

	return json.RawMessage(respBody), nil
}

// userSegment builds the mailbox path segment. An empty user means the
// mailbox of the signed-in user.
func userSegment(user string) string {
	if user == "" {
		return "me"
	}
	return "users/" + url.PathEscape(user)
}

// decodeAPIError builds an APIError from a Graph error response body.
// The body is best-effort: a missing or unparseable error object still
// yields an APIError carrying the status code.
func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var wire struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil {
		apiErr.Code = wire.Error.Code
		apiErr.Message = wire.Error.Message
	}

	return apiErr
}

// UserInfo contains the user's basic profile information from Microsoft Graph.
type UserInfo struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// GetUserInfo fetches the profile of the scoped user.
func (c *Client) GetUserInfo(ctx context.Context, user string) (*UserInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, user, "?$select=id,displayName,mail,userPrincipalName", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}

	var info UserInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &info, nil
}

// Email returns the user's email address.
// Falls back to userPrincipalName if mail is not set.
func (u *UserInfo) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}
