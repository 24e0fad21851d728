package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogchi "github.com/samber/slog-chi"

	"github.com/kova98/threadtext/config"
	"github.com/kova98/threadtext/handlers"
	"github.com/kova98/threadtext/language"
	"github.com/kova98/threadtext/metrics"
	"github.com/kova98/threadtext/sources"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

type app struct {
	logger      *slog.Logger
	clock       clockwork.Clock
	registry    *prometheus.Registry
	fetch       *handlers.FetchHandler
	transcripts *handlers.TranscriptHandler
	page        *handlers.PageHandler
}

func newApp(logger *slog.Logger, clock clockwork.Clock) (*app, error) {
	client, err := sources.NewHTTPClient(config.Config.ProxyURL, config.Config.TrustedOrigin, config.Config.UpstreamTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "create http client")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	fetcher := sources.NewRedditFetcher(logger, client, m, clock)

	var detector *language.Detector
	if config.Config.LanguageDetection {
		detector = language.NewDetector()
		logger.Info("language detection enabled")
	}

	return &app{
		logger:      logger,
		clock:       clock,
		registry:    reg,
		fetch:       handlers.NewFetchHandler(logger, fetcher),
		transcripts: handlers.NewTranscriptHandler(logger, fetcher, m, detector),
		page:        handlers.NewPageHandler(config.Config.Port),
	}, nil
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()

	r.Use(withRequestID)
	r.Use(slogchi.NewWithConfig(a.logger, slogchi.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Language", "X-Request-Id"},
	}))

	r.Get("/", a.public(a.page.GetIndex))
	r.Get("/healthz", a.public(handlers.GetHealth))
	r.Get("/fetch", a.public(a.fetch.Fetch))
	r.Get("/transcript", a.public(a.transcripts.GetTranscript))
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	return r
}

func (a *app) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Config.Port),
		Handler:      a.router(),
		ReadTimeout:  config.Config.ReadTimeout,
		WriteTimeout: config.Config.WriteTimeout,
		IdleTimeout:  config.Config.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", "port", config.Config.Port, "env", config.Config.AppEnv)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen and serve")
	case <-ctx.Done():
		a.logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	}
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *app) public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := a.clock.Now()
		res := handler(w, r)
		elapsedMs := a.clock.Since(ts).Milliseconds()
		requestID, _ := r.Context().Value(requestIDKey).(string)
		a.logger.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs, "request_id", requestID)
		writeResult(w, r, res)
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, res handlers.Result) {
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	render.Status(r, res.Code)

	switch body := res.Body.(type) {
	case nil:
		w.WriteHeader(res.Code)
	case []byte:
		w.Header().Set("Content-Type", res.ContentType)
		w.WriteHeader(res.Code)
		if _, err := w.Write(body); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	case string:
		render.PlainText(w, r, body)
	default:
		render.JSON(w, r, body)
	}

	if res.Code == http.StatusInternalServerError && res.Error != nil {
		slog.Error("internal error", "error", res.Error.Error())
	}
}

func newLogger(w io.Writer) *slog.Logger {
	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	return slog.New(slog.NewJSONHandler(w, &opts))
}
