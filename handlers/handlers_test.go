package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kova98/threadtext/config"
	"github.com/kova98/threadtext/metrics"
	"github.com/kova98/threadtext/sources"
)

const threadJSON = `[
  {"kind":"Listing","data":{"children":[{"kind":"t3","data":{
    "title":"Hello","author":"alice","subreddit":"test",
    "permalink":"/r/test/comments/1/hello/","created_utc":100,"selftext":"body text"}}]}},
  {"kind":"Listing","data":{"children":[
    {"kind":"t1","data":{"author":"bob","body":"hi\nthere","score":5,"replies":""}},
    {"kind":"more","data":{"count":3}}
  ]}}
]`

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newUpstream starts a fake reddit and points config at it.
func newUpstream(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *sources.RedditFetcher, *metrics.Metrics) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config.Config = config.AppConfig{
		UserAgent:     "threadtext-test/1.0",
		TrustedOrigin: srv.URL + "/",
		MaxBodyBytes:  1 << 20,
	}

	client, err := sources.NewHTTPClient("", config.Config.TrustedOrigin, time.Second)
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	return srv, sources.NewRedditFetcher(testLogger, client, m, clockwork.NewRealClock()), m
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func get(target string) (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil)
}
