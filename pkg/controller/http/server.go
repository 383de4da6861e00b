package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/secmon-lab/taskhub/pkg/usecase"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type Server struct {
	router         *chi.Mux
	authUC         AuthUseCase
	allowedOrigins []string
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithAllowedOrigins enables CORS for the given origins
func WithAllowedOrigins(origins []string) Options {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		authUC: uc.Auth,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}).Handler)
	}

	r.Get("/health", healthHandler)

	tasks := &taskHandler{task: uc.Task}
	reports := &reportHandler{report: uc.Report}

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/me", meHandler)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.list)
			r.Post("/", tasks.create)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", tasks.get)
				r.Patch("/", tasks.update)
				r.Get("/subtasks", tasks.listSubtasks)
				r.Post("/subtasks", tasks.createSubtask)
				r.Patch("/subtasks/{subtaskID}", tasks.updateSubtask)
			})
		})

		r.Get("/subtasks/archived", tasks.listArchivedSubtasks)
		r.Get("/reports/completion", reports.completion)
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

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
