// Package api is the HTTP facade the taskflow client talks to. It owns the
// translation between backend responses and the client-side error taxonomy;
// nothing above this package ever inspects an HTTP status code.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/types"
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
// The session store implements this.
type TokenSource interface {
	Token() string
}

// Client is a thin JSON client over the backend's REST surface.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// NewClient creates a facade client for the given base URL. tokens may be nil
// for unauthenticated use (login only).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// Authenticate exchanges credentials for a principal and a bearer token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (types.Principal, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/user/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return types.Principal{}, "", err
	}
	return resp.Principal, resp.Token, nil
}

// CreatePerson registers a new person and returns the server's view of it.
func (c *Client) CreatePerson(ctx context.Context, p CreatePayload) (types.Principal, error) {
	var resp mutationResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", p, &resp); err != nil {
		return types.Principal{}, err
	}
	return resp.User, nil
}

// UpdatePerson mutates an existing person by id. The returned principal is
// the server's authoritative post-update state, including any normalized or
// recalculated fields.
func (c *Client) UpdatePerson(ctx context.Context, id string, p UpdatePayload) (types.Principal, error) {
	var resp mutationResponse
	if err := c.do(ctx, http.MethodPut, "/user/update/"+url.PathEscape(id), p, &resp); err != nil {
		return types.Principal{}, err
	}
	return resp.User, nil
}

// ListRoster returns the team roster, optionally filtered by a search term.
// Order is the backend's; callers must preserve it.
func (c *Client) ListRoster(ctx context.Context, search string) ([]types.Principal, error) {
	path := "/user/get-team"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var roster []types.Principal
	if err := c.do(ctx, http.MethodGet, path, nil, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// FetchDashboardStats retrieves the raw dashboard aggregate.
func (c *Client) FetchDashboardStats(ctx context.Context) (types.DashboardStats, error) {
	var stats types.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/task/dashboard", nil, &stats); err != nil {
		return types.DashboardStats{}, err
	}
	return stats, nil
}

// CreateTask creates a task assigned to a team.
func (c *Client) CreateTask(ctx context.Context, p TaskPayload) (types.TaskSummary, error) {
	var resp struct {
		Task types.TaskSummary `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/task/create", p, &resp); err != nil {
		return types.TaskSummary{}, err
	}
	return resp.Task, nil
}

// do performs one JSON round trip and maps the outcome onto the error
// taxonomy.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(op, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// statusError converts a non-2xx response into a typed error, carrying the
// server's message verbatim when it sent one.
func (c *Client) statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)

	c.logger.Warn("server error",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("message", eb.Message))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: eb.Message}
	case http.StatusConflict:
		return &ConflictError{Message: eb.Message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if eb.Message != "" {
			return &ValidationError{Message: eb.Message}
		}
		return &TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return &TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, eb.Message)}
	}
}
