package internal

import (
	"strings"
	"testing"

	"github.com/starford/larder/internal/reference"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", WriteTokens: []string{"mysecret"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with write token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeNoWriteTokens(t *testing.T) {
	cfg := AuthConfig{Mode: "token", ReadTokens: []string{"viewer"}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode without write tokens should fail")
	}
	if !strings.Contains(err.Error(), "no write tokens") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", WriteTokens: []string{"x"}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStoreConfig_EmptyMarkerDefaults(t *testing.T) {
	cfg := StoreConfig{URL: "http://localhost:8080", Project: "kitchen", Dataset: "recipes"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("store config should pass: %v", err)
	}
	if cfg.Marker != reference.DefaultMarker {
		t.Errorf("marker = %q, want %q", cfg.Marker, reference.DefaultMarker)
	}
}

func TestStoreConfig_MissingProject(t *testing.T) {
	cfg := StoreConfig{URL: "http://localhost:8080", Dataset: "recipes"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing project should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.WriteTokens = nil
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
