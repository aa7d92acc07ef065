package storeserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/parser"
	"github.com/starford/larder/internal/store"
)

func recipeID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// listRecipes handles GET /recipes with optional audience/all query params.
func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := store.Scope{All: q.Get("all") == "true"}
	if !scope.All && q.Get("audience") != "" {
		audience, err := models.ParseAudience(q.Get("audience"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), ""))
			return
		}
		scope.Audience = audience
	}

	recipes, err := s.db.ListRecipes(r.Context(), scope)
	if err != nil {
		s.logger.Error("list recipes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error", ""))
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

// getRecipe handles GET /recipes/{id}.
func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id := recipeID(r)
	recipe, err := s.db.GetRecipe(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("recipe not found: "+id, "recipe-not-found"))
			return
		}
		s.logger.Error("get recipe failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error", ""))
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// fetchVisibility handles GET /visibility?ids=a,b,c.
func (s *Server) fetchVisibility(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	vis, err := s.db.FetchVisibility(r.Context(), ids)
	if err != nil {
		s.logger.Error("fetch visibility failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error", ""))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"visibility": vis})
}

// patchVisibility handles POST /visibility/{id}. The body carries the full
// next-state flag pair.
func (s *Server) patchVisibility(w http.ResponseWriter, r *http.Request) {
	id := recipeID(r)

	var vis models.Visibility
	if err := json.NewDecoder(r.Body).Decode(&vis); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid body: "+err.Error(), ""))
		return
	}

	if err := s.db.PatchVisibility(r.Context(), id, vis); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("recipe not found: "+id, "recipe-not-found"))
			return
		}
		s.logger.Error("patch visibility failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error", ""))
		return
	}

	txID := uuid.NewString()
	s.persistPatch(r, id)
	if s.broker != nil {
		s.broker.PublishMutation(id, txID, vis)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":            id,
		"transactionId": txID,
	})
}

// persistPatch writes the patched recipe back to its corpus file so the
// index and the documents on disk stay aligned. Best-effort: index state is
// authoritative within one serve session.
func (s *Server) persistPatch(r *http.Request, id string) {
	if s.provider == nil {
		return
	}
	path, err := s.db.PathOf(r.Context(), id)
	if err != nil {
		s.logger.Warn("persist patch: path lookup failed", slog.String("id", id), slog.String("error", err.Error()))
		return
	}
	recipe, err := s.db.GetRecipe(r.Context(), id)
	if err != nil {
		s.logger.Warn("persist patch: read failed", slog.String("id", id), slog.String("error", err.Error()))
		return
	}
	data, err := parser.Encode(recipe)
	if err != nil {
		s.logger.Warn("persist patch: encode failed", slog.String("id", id), slog.String("error", err.Error()))
		return
	}
	if err := s.provider.Write(path, data); err != nil {
		s.logger.Warn("persist patch: write failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

// search handles GET /search?q=&limit=.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing query", ""))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := s.db.Search(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error", ""))
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
