// Package api serves the calendar synchronisation JSON API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/calsync/internal/core/ports/driving"
	"github.com/custodia-labs/calsync/internal/logger"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(calendars driving.CalendarService, syncer driving.SyncService, version string) *mux.Router {
	h := &handlers{calendars: calendars, syncer: syncer, version: version}

	r := mux.NewRouter()
	r.Use(Logging)
	r.Use(Recovery)

	// Routes stay on the root router: mux only reports 405 for method
	// mismatches on the router that owns the route.
	r.HandleFunc("/api/health", h.health).Methods(http.MethodGet)

	r.HandleFunc("/api/calendars", h.listCalendars).Methods(http.MethodGet)
	r.HandleFunc("/api/calendars/{id}", h.getCalendar).Methods(http.MethodGet)
	r.HandleFunc("/api/calendars/{id}/sync", h.syncCalendar).Methods(http.MethodPost)
	r.HandleFunc("/api/calendars/{id}/events", h.listEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/calendars/{id}/runs", h.listRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/calendars/{id}/export.ics", h.exportCalendar).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "no such endpoint")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed")
	})

	return r
}

// Server runs the API until its context is cancelled.
type Server struct {
	server *http.Server
}

// NewServer creates a server for handler on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			// Syncs of large calendars run inside the request.
			WriteTimeout: 10 * time.Minute,
		},
	}
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(l)
	}()
	logger.Info("API listening on %s", l.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, l)
}
