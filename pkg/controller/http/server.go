package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"github.com/postpilot-app/postpilot/pkg/service/scheduler"
	"github.com/postpilot-app/postpilot/pkg/usecase"
	"github.com/postpilot-app/postpilot/pkg/utils/errutil"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	sched  *scheduler.Scheduler
}

type Options func(*Server)

// WithScheduler exposes the scheduler on the status endpoint
func WithScheduler(s *scheduler.Scheduler) Options {
	return func(srv *Server) {
		srv.sched = s
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler)

	r.Route("/api/autopost", func(r chi.Router) {
		r.Get("/status", s.statusHandler)
		r.Post("/trigger/{userID}", s.triggerHandler)
		r.Get("/debug/{userID}", s.debugHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// statusHandler reports the scheduler state
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if s.sched == nil {
		respondJSON(w, r, http.StatusOK, map[string]any{"running": false})
		return
	}
	respondJSON(w, r, http.StatusOK, s.sched.Status())
}

// triggerHandler starts a manual posting run for one user
func (s *Server) triggerHandler(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))
	if err := userID.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	outcome, err := s.uc.RunManual(r.Context(), userID, force)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
		return
	}

	status := http.StatusOK
	if !outcome.Published {
		status = http.StatusConflict
	}
	respondJSON(w, r, status, outcome)
}

// debugHandler reports how the scheduler currently sees one user
func (s *Server) debugHandler(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))
	if err := userID.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	insp, err := s.uc.Inspect(r.Context(), userID, time.Now().UTC())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
		return
	}

	respondJSON(w, r, http.StatusOK, insp)
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}
