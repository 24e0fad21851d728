package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"github.com/kova98/threadtext/sources"
)

type Fetcher interface {
	Fetch(ctx context.Context, target string) (*sources.Response, error)
	JSONURL(raw string, forceJSON bool) (string, error)
}

type FetchHandler struct {
	logger  *slog.Logger
	fetcher Fetcher
}

func NewFetchHandler(logger *slog.Logger, fetcher Fetcher) *FetchHandler {
	return &FetchHandler{logger: logger, fetcher: fetcher}
}

// Fetch relays GET ?url=<target> to reddit and returns the body verbatim.
func (h *FetchHandler) Fetch(w http.ResponseWriter, r *http.Request) Result {
	target := r.URL.Query().Get("url")

	resp, err := h.fetcher.Fetch(r.Context(), target)
	if err != nil {
		return fetchError(h.logger, err, target)
	}

	return Raw(resp.Body, "application/json; charset=utf-8").
		WithHeader("Access-Control-Allow-Origin", "*")
}

func fetchError(logger *slog.Logger, err error, target string) Result {
	switch {
	case errors.Is(err, sources.ErrMissingURL):
		return BadRequest("Missing 'url' parameter")
	case errors.Is(err, sources.ErrUntrustedURL):
		logger.Debug("rejected untrusted url", "url", target)
		return BadRequest("Only reddit.com URLs are allowed")
	default:
		logger.Warn("upstream fetch failed", "url", target, "error", sources.TruncateError(err))
		return BadGateway(err)
	}
}
