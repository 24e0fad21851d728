package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kova98/threadtext/language"
	"github.com/kova98/threadtext/metrics"
	"github.com/kova98/threadtext/models"
	"github.com/kova98/threadtext/transcript"
)

const downloadFilename = "reddit_text.txt"

type TranscriptHandler struct {
	logger   *slog.Logger
	fetcher  Fetcher
	metrics  *metrics.Metrics
	detector *language.Detector
}

// NewTranscriptHandler wires the server-side renderer. detector may be nil,
// in which case no Content-Language is reported.
func NewTranscriptHandler(logger *slog.Logger, fetcher Fetcher, m *metrics.Metrics, detector *language.Detector) *TranscriptHandler {
	return &TranscriptHandler{
		logger:   logger,
		fetcher:  fetcher,
		metrics:  m,
		detector: detector,
	}
}

// GetTranscript handles GET ?url=<reddit link>&json=<bool>&download=<bool>&format=<text|json>.
func (h *TranscriptHandler) GetTranscript(w http.ResponseWriter, r *http.Request) Result {
	q := r.URL.Query()

	format := q.Get("format")
	if format != "" && format != "text" && format != "json" {
		return BadRequest("Unknown format, expected text or json")
	}

	raw := q.Get("url")
	target, err := h.fetcher.JSONURL(raw, queryBool(q.Get("json"), true))
	if err != nil {
		return fetchError(h.logger, err, raw)
	}

	resp, err := h.fetcher.Fetch(r.Context(), target)
	if err != nil {
		return fetchError(h.logger, err, target)
	}

	v, err := transcript.Decode(resp.Body)
	if err != nil {
		h.logger.Warn("upstream returned invalid json", "url", target, "error", err)
		return BadGateway(err)
	}

	shape := transcript.ShapeOf(v)
	text := transcript.Render(v)
	h.metrics.ObserveTranscript(shape)

	lang := ""
	if h.detector != nil {
		lang, _ = h.detector.Detect(text)
	}
	h.logger.Debug("rendered transcript", "url", target, "shape", shape, "language", lang, "bytes", len(text))

	var res Result
	if format == "json" {
		res = Ok(models.TranscriptResponse{
			Source:   target,
			Shape:    shape,
			Language: lang,
			Text:     text,
		})
	} else {
		res = Text(text)
		if queryBool(q.Get("download"), false) {
			res = res.WithHeader("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
		}
	}

	if lang != "" {
		res = res.WithHeader("Content-Language", lang)
	}
	return res
}

func queryBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
