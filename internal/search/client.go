package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nexus-sus/nexus/internal/config"
	"github.com/nexus-sus/nexus/internal/errors"
	"github.com/nexus-sus/nexus/internal/logging"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Lookuper resolves a validated region code against the lookup service.
// A nil error always comes with a non-nil Outcome.
type Lookuper interface {
	Lookup(ctx context.Context, code string) (*Outcome, error)
}

// ClientOptions configures an HTTPClient.
type ClientOptions struct {
	// BaseURL is the scheme and host of the lookup service. Required.
	BaseURL string
	// SearchPath defaults to /api/search.
	SearchPath string
	// Timeout bounds one lookup; 0 leaves it to the transport.
	Timeout time.Duration
	// UserAgent defaults to nexus/<version>.
	UserAgent string
	// HTTPClient defaults to a fresh http.Client.
	HTTPClient *http.Client
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
}

// HTTPClient implements Lookuper over GET <base><path>?estado=<UF>.
type HTTPClient struct {
	endpoint  *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *logging.Logger
}

// NewHTTPClient validates opts and builds a client.
func NewHTTPClient(opts ClientOptions) (*HTTPClient, error) {
	if opts.SearchPath == "" {
		opts.SearchPath = "/api/search"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "nexus/" + config.Version
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	endpoint, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + opts.SearchPath)
	if err != nil {
		return nil, errors.NewValidationError("invalid lookup endpoint").
			WithField("base_url").
			WithValue(opts.BaseURL).
			WithCause(err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" || endpoint.Host == "" {
		return nil, errors.NewValidationError("lookup endpoint must be an absolute http or https URL").
			WithField("base_url").
			WithValue(opts.BaseURL)
	}

	return &HTTPClient{
		endpoint:  endpoint,
		http:      opts.HTTPClient,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		logger:    opts.Logger.WithComponent("lookup"),
	}, nil
}

// NewHTTPClientFromConfig builds a client from the api section of the config.
func NewHTTPClientFromConfig(cfg config.APIConfig, logger *logging.Logger) (*HTTPClient, error) {
	return NewHTTPClient(ClientOptions{
		BaseURL:    cfg.BaseURL,
		SearchPath: cfg.SearchPath,
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		Logger:     logger,
	})
}

// Endpoint returns the URL queried, without the estado parameter.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint.String()
}

// Lookup issues exactly one GET for code and classifies the answer:
//   - 429 fails with errors.ErrRateLimited
//   - any other non-2xx or a network failure fails with errors.ErrTransport
//   - a 2xx body that does not match the contract fails with errors.ErrMalformedResponse
//
// Error bodies are never read. Lookup does not retry.
func (c *HTTPClient) Lookup(ctx context.Context, code string) (*Outcome, error) {
	if !IsValidCode(code) {
		return nil, errors.NewValidationError("region code must be two letters").
			WithField("estado").
			WithValue(code).
			WithCause(errors.ErrInvalidRegionCode)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := *c.endpoint
	q := u.Query()
	q.Set("estado", code)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewLookupError(code, errors.Join(errors.ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	log := c.logger.With("code", code)
	log.Debug("lookup dispatched", "url", u.String())
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		cause := errors.Join(errors.ErrTransport, err)
		if ctx.Err() != nil {
			cause = errors.Join(errors.ErrTransport, errors.ErrCanceled, err)
		}
		log.Warn("lookup failed", "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return nil, errors.NewLookupError(code, cause)
	}
	defer resp.Body.Close()

	log = log.With("status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		drain(resp.Body)
		log.Warn("lookup rate limited")
		return nil, errors.NewLookupError(code, errors.ErrRateLimited).WithStatus(resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		drain(resp.Body)
		log.Warn("lookup returned non-success status")
		return nil, errors.NewLookupError(code, errors.ErrTransport).WithStatus(resp.StatusCode)
	}

	out, err := decodeOutcome(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Error("lookup response malformed", "error", err.Error())
		return nil, errors.NewLookupError(code, errors.Join(errors.ErrMalformedResponse, err)).
			WithStatus(resp.StatusCode)
	}

	if out.Kind == NotFound && out.Code != code {
		log.Debug("not_found echoed a different code", "echoed", out.Code)
	}
	log.Info("lookup settled", "outcome", out.Kind.String())
	return out, nil
}

// decodeOutcome parses a 2xx body strictly: a known status tag and the
// payload that tag requires.
func decodeOutcome(r io.Reader) (*Outcome, error) {
	var w wireResponse
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, errors.Wrap(err, "decode body")
	}
	// The body must be exactly one JSON value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON body")
	}
	if w.Status == nil {
		return nil, fmt.Errorf("missing status")
	}

	switch *w.Status {
	case StatusSuccess:
		if w.Data == nil {
			return nil, fmt.Errorf("status %q without data", *w.Status)
		}
		if w.Data.Estado == "" {
			return nil, fmt.Errorf("record without estado")
		}
		return NewFound(*w.Data), nil
	case StatusNotFound:
		if w.UF == nil || *w.UF == "" {
			return nil, fmt.Errorf("status %q without uf", *w.Status)
		}
		return NewNotFound(*w.UF), nil
	default:
		return nil, fmt.Errorf("unknown status %q", *w.Status)
	}
}

func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
}
