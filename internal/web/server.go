// Package web serves freshly generated charts and statistics over HTTP.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emiliopalmerini/stresschart/internal/infrastructure/config"
	"github.com/emiliopalmerini/stresschart/internal/ports"
	"github.com/emiliopalmerini/stresschart/internal/report"
)

type Server struct {
	router   *http.ServeMux
	port     int
	reports  *report.Service
	logger   ports.Logger
	defaults config.Generation
}

func NewServer(reports *report.Service, logger ports.Logger, defaults config.Generation, port int) *Server {
	s := &Server{
		router:   http.NewServeMux(),
		port:     port,
		reports:  reports,
		logger:   logger,
		defaults: defaults,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.HandleFunc("GET /chart.png", s.handleChart)
	s.router.HandleFunc("GET /chart.html", s.handleChart)
	s.router.HandleFunc("GET /summary.json", s.handleSummary)
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.router)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(fmt.Sprintf("%s %s %d %s", r.Method, r.URL.RequestURI(), rec.status, time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info(fmt.Sprintf("Starting server at http://localhost:%d", s.port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(fmt.Sprintf("Server shutdown error: %v", err))
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
