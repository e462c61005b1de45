// Package dashboard serves the report page and per-report endpoints.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dbsmedya/dwdash/internal/logger"
	"github.com/dbsmedya/dwdash/internal/report"
)

const shutdownTimeout = 10 * time.Second

// Pinger checks warehouse connectivity. *database.Manager implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the page and the HTTP server.
type Options struct {
	Title        string
	Warehouse    string // credential-free description
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server renders enabled reports on request.
type Server struct {
	reports []report.Report
	runner  *report.Runner
	pinger  Pinger
	opts    Options
	logger  *logger.Logger
	router  *mux.Router
}

// NewServer creates a Server for reports, in page order.
func NewServer(reports []report.Report, runner *report.Runner, pinger Pinger, opts Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Server{
		reports: reports,
		runner:  runner,
		pinger:  pinger,
		opts:    opts,
		logger:  log,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/reports/{id:[a-z-]+}.png", s.handleChart).Methods(http.MethodGet)
	s.router.HandleFunc("/api/reports/{id}", s.handleTable).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Use(s.logRequests)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("dashboard listening", "addr", addr, "reports", len(s.reports))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) lookup(id string) (report.Report, bool) {
	for _, rep := range s.reports {
		if rep.ID() == id {
			return rep, true
		}
	}
	return nil, false
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	outcomes := s.runner.RunAll(r.Context(), s.reports)

	p := page{Title: s.opts.Title, Warehouse: s.opts.Warehouse}
	for _, o := range outcomes {
		p.Sections = append(p.Sections, newSection(o))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		s.logger.Errorw("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	o := s.runner.Run(r.Context(), rep)
	if o.Err != nil {
		http.Error(w, o.Err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(o.Result.Chart)
}

// tableResponse is the JSON body of /api/reports/{id}.
type tableResponse struct {
	ID      string        `json:"id"`
	Heading string        `json:"heading"`
	Notice  string        `json:"notice,omitempty"`
	Rows    int           `json:"input_rows"`
	Table   *report.Table `json:"table"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rep, ok := s.lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("%s: %q", report.ErrUnknownReport, id)})
		return
	}

	o := s.runner.Run(r.Context(), rep)
	if o.Err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: o.Err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{
		ID:      o.Result.ID,
		Heading: o.Result.Heading,
		Notice:  o.Result.Notice,
		Rows:    o.Result.Rows,
		Table:   o.Result.Table,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debugw("request", "status", rec.status, "duration", time.Since(start))
	})
}
