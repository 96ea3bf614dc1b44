package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	authUC AuthUseCase
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		authUC: uc.Auth,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Health check, no auth required
	r.Get("/health", healthHandler)

	// Duplicate registry endpoints
	r.Route("/api/duplicates", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))
		r.Use(requireModerator)

		r.Post("/detect", detectHandler(uc.Duplicates))
		r.Get("/", listPairsHandler(uc.Duplicates))
		r.Get("/stats", statsHandler(uc.Duplicates))
		r.Get("/{pairID}", getPairHandler(uc.Duplicates))
		r.Patch("/{pairID}/resolve", resolvePairHandler(uc.Duplicates))
		r.Get("/{pairID}/audit", pairAuditHandler(uc.Duplicates))
	})

	// Auth endpoints (if auth is configured)
	if s.authUC != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/session", authSessionHandler(s.authUC))
			r.Post("/logout", authLogoutHandler(s.authUC))
			r.Get("/me", authMeHandler(s.authUC))
		})
	}

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
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
