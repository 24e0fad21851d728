package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/kova98/threadtext/config"
	"github.com/kova98/threadtext/matchers"
	"github.com/kova98/threadtext/metrics"
)

var (
	ErrMissingURL   = errors.New("missing url")
	ErrUntrustedURL = errors.New("url is not on the trusted origin")
	errTooLarge     = errors.New("response body too large")
)

// UpstreamError is a failed fetch: transport error, timeout, non-2xx status
// or an oversized body. StatusCode is 0 when no response arrived.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Response struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

type RedditFetcher struct {
	logger       *slog.Logger
	httpClient   *http.Client
	metrics      *metrics.Metrics
	clock        clockwork.Clock
	userAgent    string
	origin       string
	maxBodyBytes int64
}

func NewRedditFetcher(logger *slog.Logger, httpClient *http.Client, m *metrics.Metrics, clock clockwork.Clock) *RedditFetcher {
	return &RedditFetcher{
		logger:       logger,
		httpClient:   httpClient,
		metrics:      m,
		clock:        clock,
		userAgent:    config.Config.UserAgent,
		origin:       config.Config.TrustedOrigin,
		maxBodyBytes: config.Config.MaxBodyBytes,
	}
}

// JSONURL resolves a pasted reddit link to its JSON endpoint on the trusted origin.
func (h *RedditFetcher) JSONURL(raw string, forceJSON bool) (string, error) {
	return ToJSONURL(h.origin, raw, forceJSON)
}

// Fetch performs a single GET against the trusted origin and returns the raw body.
// Validation failures return ErrMissingURL or ErrUntrustedURL, everything else
// an *UpstreamError.
func (h *RedditFetcher) Fetch(ctx context.Context, target string) (*Response, error) {
	if target == "" {
		return nil, ErrMissingURL
	}
	if !matchers.MatchesTrustedOrigin(target, h.origin) {
		return nil, ErrUntrustedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, ErrUntrustedURL
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")

	start := h.clock.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.metrics.ObserveFetch(metrics.OutcomeError, h.clock.Since(start))
		return nil, &UpstreamError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.metrics.ObserveFetch(metrics.OutcomeStatus, h.clock.Since(start))
		return nil, &UpstreamError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), target),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodyBytes+1))
	if err != nil {
		h.metrics.ObserveFetch(metrics.OutcomeError, h.clock.Since(start))
		return nil, &UpstreamError{URL: target, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}
	if int64(len(body)) > h.maxBodyBytes {
		h.metrics.ObserveFetch(metrics.OutcomeTooLarge, h.clock.Since(start))
		return nil, &UpstreamError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        errors.Wrapf(errTooLarge, "limit is %d bytes", h.maxBodyBytes),
		}
	}

	elapsed := h.clock.Since(start)
	h.metrics.ObserveFetch(metrics.OutcomeOK, elapsed)
	h.logger.Debug("fetched reddit json", "url", target, "bytes", len(body), "elapsed_ms", elapsed.Milliseconds())

	return &Response{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// TruncateError shortens long upstream messages (often full HTML pages) for logs.
func TruncateError(err error) error {
	msg := err.Error()
	if len(msg) > 300 {
		return fmt.Errorf("%s...", msg[:300])
	}
	return err
}
