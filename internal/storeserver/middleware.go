package storeserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// projectCheck rejects requests addressed to a project/dataset this store
// does not serve. The 404 carries code "project-not-found" so clients can
// distinguish a misconfigured credential/path from a missing document.
func (s *Server) projectCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "project") != s.project || chi.URLParam(r, "dataset") != s.dataset {
			writeJSON(w, http.StatusNotFound, errorBody("unknown project or dataset", "project-not-found"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeAuth enforces the mutation token model: a token from WriteTokens
// passes, a recognised read-only token is answered 403, anything else 401.
func (s *Server) writeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No tokens configured means the store runs open, local-dev style.
		if len(s.auth.WriteTokens) == 0 && len(s.auth.ReadTokens) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody("missing credential", ""))
			return
		}
		for _, t := range s.auth.WriteTokens {
			if token == t {
				next.ServeHTTP(w, r)
				return
			}
		}
		for _, t := range s.auth.ReadTokens {
			if token == t {
				writeJSON(w, http.StatusForbidden, errorBody("credential lacks update rights", ""))
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, errorBody("unknown credential", ""))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
