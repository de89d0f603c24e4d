package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrSessionExpired is returned when a 401 survives the single
// refresh-and-retry cycle. The caller's session has been cleared and the
// user must log in again.
var ErrSessionExpired = errors.New("session expired, login required")

// APIError is a backend-reported business error: a non-2xx response with a
// JSON detail/message body. The detail is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// TokenSource provides and updates the tokens for one role's session.
// A nil TokenSource means requests go out unauthenticated.
type TokenSource interface {
	Tokens() (access, refresh string, err error)
	SetAccess(access string) error
	Clear() error
}

// Client talks to the MEDIRIDE backend. It owns no business logic: it
// encodes, attaches bearer tokens, decodes, and maps error bodies.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

// Do performs a JSON request without authentication. On a non-2xx status it
// returns an *APIError carrying the backend's detail/message field if
// present. No retries, no client-side timeout beyond the transport's.
func (c *Client) Do(ctx context.Context, method, path string, req, res any) error {
	return c.doWithToken(ctx, method, path, req, res, "")
}

// DoAuthed performs a JSON request with the current access token. On a 401
// it refreshes the token exactly once and retries the original request
// once; if the refresh fails or the retry 401s again, the session is
// cleared and ErrSessionExpired returned. This single-retry-then-logout
// policy is the only resilience behavior in the client. Sessions without
// a refresh token skip the cycle entirely and see the backend's 401.
func (c *Client) DoAuthed(ctx context.Context, method, path string, req, res any) error {
	if c.Tokens == nil {
		return c.doWithToken(ctx, method, path, req, res, "")
	}
	access, refresh, err := c.Tokens.Tokens()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	err = c.doWithToken(ctx, method, path, req, res, access)
	if !isUnauthorized(err) {
		return err
	}
	if refresh == "" {
		// no refresh token to spend: the 401 belongs to whoever owns the
		// token, so it passes through with the backend's detail intact
		return err
	}

	newAccess, refreshErr := c.RefreshToken(ctx, refresh)
	if refreshErr != nil {
		_ = c.Tokens.Clear()
		return ErrSessionExpired
	}
	if err := c.Tokens.SetAccess(newAccess); err != nil {
		return fmt.Errorf("saving refreshed token: %w", err)
	}

	err = c.doWithToken(ctx, method, path, req, res, newAccess)
	if isUnauthorized(err) {
		_ = c.Tokens.Clear()
		return ErrSessionExpired
	}
	return err
}

// StaticToken is a TokenSource holding a fixed access token and no
// refresh token. Used by the proxy, which forwards each caller's own
// bearer token and leaves refreshing to the caller.
type StaticToken string

func (t StaticToken) Tokens() (string, string, error) { return string(t), "", nil }
func (t StaticToken) SetAccess(string) error          { return nil }
func (t StaticToken) Clear() error                    { return nil }

// WithToken returns a shallow copy of the client bound to a fixed access
// token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Tokens = StaticToken(token)
	return &cp
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", &APIError{StatusCode: http.StatusUnauthorized, Detail: "no refresh token"}
	}
	var out struct {
		Access string `json:"access"`
	}
	req := map[string]string{"refresh": refresh}
	if err := c.doWithToken(ctx, http.MethodPost, "/api/token/refresh/", req, &out, ""); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return out.Access, nil
}

func (c *Client) doWithToken(ctx context.Context, method, path string, req, res any, token string) error {
	var body io.Reader
	if req != nil {
		b, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpRes, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer httpRes.Body.Close()

	if httpRes.StatusCode >= 200 && httpRes.StatusCode < 300 {
		if res == nil {
			return nil
		}
		if err := json.NewDecoder(httpRes.Body).Decode(res); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	return decodeError(httpRes)
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		switch {
		case body.Detail != "":
			apiErr.Detail = body.Detail
		case body.Message != "":
			apiErr.Detail = body.Message
		case body.Error != "":
			apiErr.Detail = body.Error
		}
	}
	return apiErr
}

func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
