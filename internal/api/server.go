package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/san-kum/threephase/internal/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg     config.ServerConfig
	handler *Handler
	log     *slog.Logger
	http    *http.Server
}

func NewServer(cfg config.ServerConfig, voltage float64, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, handler: NewHandler(voltage), log: log}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes builds the full handler chain: logging, CORS, rate limiting, router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/calculate", s.handler.Calculate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/presets", s.handler.ListPresets).Methods(http.MethodGet)
	r.HandleFunc("/presets/{name}", s.handler.Preset).Methods(http.MethodGet)

	var h http.Handler = r
	if s.cfg.Rate > 0 {
		h = NewIPRateLimiter(rate.Limit(s.cfg.Rate), max(s.cfg.Burst, 1)).Middleware(h)
	}
	h = CORS(s.cfg.CORSOrigins, h)
	return logRequests(s.log, h)
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
