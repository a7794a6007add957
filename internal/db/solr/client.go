package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/metrics"
)

// Compile-time check: Client implements db.Backend.
var _ db.Backend = (*Client)(nil)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// Config holds the backend connection settings.
type Config struct {
	// URL is the core base URL, e.g. http://localhost:8983/solr/site_search.
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to a Solr core over its JSON HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient validates the config and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("solr url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid solr url %q", cfg.URL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    hc,
		logger:  logger,
	}, nil
}

// Select runs a select query.
func (c *Client) Select(ctx context.Context, q *db.Query) (*db.Response, error) {
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	var raw selectResponse
	if err := c.do(ctx, db.OpSelect, http.MethodPost, "/select", encodeQuery(q), &raw); err != nil {
		return nil, err
	}
	resp, err := raw.toResponse(q)
	if err != nil {
		metrics.BackendErrorsTotal.WithLabelValues(db.OpSelect, "malformed").Inc()
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return resp, nil
}

// Ping checks the core's ping handler.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{"wt": {"json"}}
	var raw pingResponse
	if err := c.do(ctx, db.OpPing, http.MethodGet, "/admin/ping", params, &raw); err != nil {
		return err
	}
	if raw.Status != "OK" {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("%w: ping status %q", db.ErrBadStatus, raw.Status)}
	}
	return nil
}

// do sends a request, records metrics and decodes the JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, out headered) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, params, out)
	duration := time.Since(start)

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "error").Inc()
		metrics.BackendErrorsTotal.WithLabelValues(op, errorType(err)).Inc()
		c.logger.Debug("Backend request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return &db.Error{Op: op, Err: err}
	}
	metrics.BackendRequestsTotal.WithLabelValues(op, "success").Inc()
	metrics.BackendRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params url.Values, out headered) error {
	endpoint := c.baseURL + path
	var body io.Reader
	if method == http.MethodGet {
		endpoint += "?" + params.Encode()
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: HTTP %d: %s", db.ErrBadStatus, resp.StatusCode, extractDetail(detail))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode body: %w", db.ErrMalformedResponse, err)
	}
	if status := out.header().Status; status != 0 {
		return fmt.Errorf("%w: embedded status %d", db.ErrBadStatus, status)
	}
	return nil
}

// extractDetail pulls error.msg out of a Solr error body, falling back to the raw text.
func extractDetail(body []byte) string {
	var parsed struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Msg != "" {
		return parsed.Error.Msg
	}
	return strings.TrimSpace(string(body))
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, db.ErrBadStatus):
		return "bad_status"
	case errors.Is(err, db.ErrMalformedResponse):
		return "malformed"
	default:
		return "transport"
	}
}
