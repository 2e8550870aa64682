package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"aapctl/pkg/logging"
)

// maxBodyBytes bounds how much of a response body is read. Gateway
// responses are small JSON documents; anything larger is suspect.
const maxBodyBytes = 4 << 20

// errorBodySnippet bounds how much response body is copied into a
// StatusError for diagnosis.
const errorBodySnippet = 512

// Client is a JSON REST client for the automation platform gateway.
// All methods issue a single blocking request bounded by the configured
// timeout; there is no retry logic. Each call is tagged with a request
// correlation id in debug logs.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
}

// NewClient builds a Client from an explicit Config.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.validateCerts() {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.timeout(),
		},
	}
	if cfg.Token != "" {
		// A static source today; any refreshable oauth2.TokenSource
		// plugs in the same way.
		c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	}
	return c, nil
}

// BaseURL returns the normalized gateway base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request and expects a 200 response.
func (c *Client) Get(ctx context.Context, path string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, path, nil, []int{http.StatusOK})
}

// Post issues a POST request with a JSON body. The expected statuses
// default to 201 Created.
func (c *Client) Post(ctx context.Context, path string, body any, expect ...int) (map[string]any, error) {
	if len(expect) == 0 {
		expect = []int{http.StatusCreated}
	}
	return c.do(ctx, http.MethodPost, path, body, expect)
}

// Patch issues a PATCH request with a JSON body. The expected statuses
// default to 200 OK.
func (c *Client) Patch(ctx context.Context, path string, body any, expect ...int) (map[string]any, error) {
	if len(expect) == 0 {
		expect = []int{http.StatusOK}
	}
	return c.do(ctx, http.MethodPatch, path, body, expect)
}

// Delete issues a DELETE request. The expected statuses default to
// 204 No Content.
func (c *Client) Delete(ctx context.Context, path string, expect ...int) (map[string]any, error) {
	if len(expect) == 0 {
		expect = []int{http.StatusNoContent}
	}
	return c.do(ctx, http.MethodDelete, path, nil, expect)
}

func (c *Client) do(ctx context.Context, method, path string, body any, expect []int) (map[string]any, error) {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logging.Debug("Gateway", "[%s] %s %s", requestID, method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{
			Method:  method,
			Path:    path,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Timeout: isTimeout(err), Err: err}
	}

	logging.Debug("Gateway", "[%s] %s %s -> %d (%d bytes)", requestID, method, path, resp.StatusCode, len(raw))

	if !statusExpected(resp.StatusCode, expect) {
		return nil, &StatusError{
			Method:   method,
			Path:     path,
			Status:   resp.StatusCode,
			Expected: expect,
			Body:     snippet(raw),
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Some list endpoints return a bare JSON array.
		var items []any
		if listErr := json.Unmarshal(raw, &items); listErr == nil {
			return map[string]any{"results": items}, nil
		}
		return nil, &DecodeError{Method: method, Path: path, Err: err}
	}
	return parsed, nil
}

// authorize attaches basic or bearer credentials to the request.
func (c *Client) authorize(req *http.Request) error {
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("obtaining gateway token: %w", err)
		}
		token.SetAuthHeader(req)
		return nil
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	return nil
}

func statusExpected(status int, expect []int) bool {
	for _, want := range expect {
		if status == want {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > errorBodySnippet {
		s = s[:errorBodySnippet] + "..."
	}
	return s
}

// Results extracts the item list from a collection response. Paginated
// endpoints wrap items in a "results" array; a body that is itself a
// single item yields a one-element list.
func Results(body map[string]any) []map[string]any {
	if body == nil {
		return nil
	}
	raw, ok := body["results"]
	if !ok {
		if _, hasID := body["id"]; hasID {
			return []map[string]any{body}
		}
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
