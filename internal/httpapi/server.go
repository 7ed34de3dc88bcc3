// Package httpapi exposes board sessions over HTTP/JSON. A client opens a
// session with POST /api/session, receives a bearer token naming it, and
// drives the session's editor, filters and admin actions with the remaining
// routes. Every mutating route answers with the recomputed view.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/logboard/internal/auth"
	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ctxKey string

const handleKey ctxKey = "session"

// Options configures a Server.
type Options struct {
	Registry       *Registry
	SecretKey      []byte
	TokenTTL       time.Duration
	AllowedOrigins []string
	Logger         logging.Logger

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Health reports store reachability for /health when set.
	Health func(ctx context.Context) error
}

type Server struct {
	registry *Registry
	secret   []byte
	ttl      time.Duration
	origins  []string
	log      logging.Logger
	metrics  http.Handler
	health   func(ctx context.Context) error
}

func New(o Options) *Server {
	log := o.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		registry: o.Registry,
		secret:   o.SecretKey,
		ttl:      o.TokenTTL,
		origins:  o.AllowedOrigins,
		log:      log.With("module", "http_api"),
		metrics:  o.Metrics,
		health:   o.Health,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", common.AdminPassphraseHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleCreateSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Put("/session/user", s.handleSelectUser)
			r.Put("/session/filter", s.handleFilter)
			r.Put("/session/editor", s.handleEditDraft)
			r.Post("/session/editor/submit", s.handleSubmitDraft)
			r.Post("/session/editor/clear", s.handleClearDraft)

			r.Get("/entries", s.handleView)
			r.Delete("/entries", s.handleDelete)
			r.Post("/entries/{index}/close", s.handleCloseEntry)
			r.Post("/entries/{index}/reply/open", s.handleOpenReply)
			r.Put("/entries/reply", s.handleEditReply)
			r.Post("/entries/reply/send", s.handleSendReply)
			r.Delete("/entries/reply", s.handleCancelReply)

			r.Post("/reload", s.handleReload)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// requireSession resolves the bearer token to a live session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get(common.SessionTokenHeaderName), "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrInvalidToken, "")
			return
		}

		claims, err := auth.ParseToken(token, s.secret)
		if err != nil {
			writeError(w, err, "")
			return
		}

		h, err := s.registry.get(claims.SessionID)
		if err != nil {
			writeError(w, err, "")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), handleKey, h)))
	})
}

func handleFrom(ctx context.Context) *handle {
	h, _ := ctx.Value(handleKey).(*handle)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.log.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
