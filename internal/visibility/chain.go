package visibility

import (
	"context"
	"errors"
	"os"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/store"
)

// Credential environment slots, in priority order. Propagation fails fast
// when none of them is populated.
const (
	EnvWriteToken         = "LARDER_WRITE_TOKEN"
	EnvWriteTokenFallback = "LARDER_WRITE_TOKEN_FALLBACK"
	EnvAPIToken           = "LARDER_API_TOKEN"
)

// Channel is one credentialed write path to the content store.
type Channel struct {
	Name   string
	Writer store.Writer
}

// Chain is an ordered list of write channels, tried front to back.
type Chain []Channel

// ChainFromEnv builds the write chain from the recognised credential
// environment slots. newWriter turns one token into a credentialed writer
// (typically store.NewClient bound to the configured project). An empty
// chain is returned when no slot is populated.
func ChainFromEnv(newWriter func(token string) store.Writer) Chain {
	slots := []struct {
		name string
		env  string
	}{
		{"write", EnvWriteToken},
		{"write-fallback", EnvWriteTokenFallback},
		{"api", EnvAPIToken},
	}
	var chain Chain
	for _, s := range slots {
		token := os.Getenv(s.env)
		if token == "" {
			continue
		}
		chain = append(chain, Channel{Name: s.name, Writer: newWriter(token)})
	}
	return chain
}

// attemptKind classifies one write attempt.
type attemptKind int

const (
	attemptOK attemptKind = iota
	attemptPermission
	attemptMismatch
	attemptFatal
)

func classifyAttempt(err error) attemptKind {
	switch {
	case err == nil:
		return attemptOK
	case errors.Is(err, apperr.ErrPermissionDenied):
		return attemptPermission
	case errors.Is(err, apperr.ErrProjectMismatch):
		return attemptMismatch
	}
	return attemptFatal
}

// Write patches one recipe through the chain. Permission denials and project
// mismatches advance to the next channel; any other failure is returned
// immediately. When the chain is exhausted the dominant recoverable failure
// class decides the error: permission first, then mismatch, then a generic
// missing-credential error.
func (c Chain) Write(ctx context.Context, project, id string, vis models.Visibility) error {
	if len(c) == 0 {
		return apperr.ErrNoWriteCredential
	}

	var sawPermission, sawMismatch bool
	attempted := make([]string, 0, len(c))

	for _, ch := range c {
		attempted = append(attempted, ch.Name)
		err := ch.Writer.PatchVisibility(ctx, id, vis)
		switch classifyAttempt(err) {
		case attemptOK:
			return nil
		case attemptPermission:
			sawPermission = true
		case attemptMismatch:
			sawMismatch = true
		case attemptFatal:
			return err
		}
	}

	switch {
	case sawPermission:
		return &apperr.PermissionError{Channels: attempted}
	case sawMismatch:
		return &apperr.ProjectMismatchError{Project: project}
	}
	return apperr.ErrNoWriteCredential
}
