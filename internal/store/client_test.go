package store

import (
	"errors"
	"net/http"
	"testing"

	"github.com/starford/larder/internal/apperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   errBody
		want   error
	}{
		{"forbidden", http.StatusForbidden, errBody{Error: "no update rights"}, apperr.ErrPermissionDenied},
		{"unauthorized", http.StatusUnauthorized, errBody{Error: "unknown credential"}, apperr.ErrProjectMismatch},
		{"project not found", http.StatusNotFound, errBody{Error: "unknown project", Code: "project-not-found"}, apperr.ErrProjectMismatch},
		{"recipe not found", http.StatusNotFound, errBody{Error: "no such recipe", Code: "recipe-not-found"}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.status, tt.body)
			if !errors.Is(err, tt.want) {
				t.Errorf("classify(%d) = %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestClassify_UnexpectedStatusIsFatal(t *testing.T) {
	err := classify(http.StatusInternalServerError, errBody{Error: "boom"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, sentinel := range []error{apperr.ErrPermissionDenied, apperr.ErrProjectMismatch, apperr.ErrNotFound} {
		if errors.Is(err, sentinel) {
			t.Errorf("500 should not classify as %v", sentinel)
		}
	}
}

func TestEndpoint(t *testing.T) {
	c := NewClient("http://localhost:8080/", "kitchen", "recipes", "")
	got := c.endpoint("visibility", "aioli")
	want := "http://localhost:8080/v1/data/kitchen/recipes/visibility/aioli"
	if got != want {
		t.Errorf("endpoint = %q, want %q", got, want)
	}
}
