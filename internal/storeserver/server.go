// Package storeserver exposes the local content store over HTTP: the recipe
// read surface, the visibility write surface, full-text search and an SSE
// listen stream. This is the collaborator API the store client talks to; the
// visibility engine itself has no HTTP surface here.
package storeserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/larder/internal/index"
	"github.com/starford/larder/internal/sse"
	"github.com/starford/larder/internal/storage"
)

// Auth describes the token model of the local store. Reads are open;
// mutations require a token with write capability.
type Auth struct {
	// WriteTokens may patch visibility.
	WriteTokens []string
	// ReadTokens are recognised but read-only; mutation attempts with one
	// are answered 403.
	ReadTokens []string
}

// Server serves the content store API for one project/dataset pair.
type Server struct {
	project  string
	dataset  string
	auth     Auth
	db       index.RecipeIndex
	provider storage.Provider // optional: persists patches back to corpus files
	broker   *sse.Broker      // optional: listen endpoint + mutation events
	logger   *slog.Logger
}

// New creates a store server. provider and broker may be nil.
func New(project, dataset string, auth Auth, db index.RecipeIndex, provider storage.Provider, broker *sse.Broker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		project:  project,
		dataset:  dataset,
		auth:     auth,
		db:       db,
		provider: provider,
		broker:   broker,
		logger:   logger,
	}
}

// Router returns the chi router with the full store API mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	r.Route("/v1/data/{project}/{dataset}", func(r chi.Router) {
		r.Use(s.projectCheck)

		r.Get("/recipes", s.listRecipes)
		r.Get("/recipes/{id}", s.getRecipe)
		r.Get("/visibility", s.fetchVisibility)
		r.Get("/search", s.search)

		r.Group(func(r chi.Router) {
			r.Use(s.writeAuth)
			r.Post("/visibility/{id}", s.patchVisibility)
		})

		if s.broker != nil {
			r.Get("/listen", s.broker.ServeHTTP)
		}
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
