// Package apperr defines the error classification shared by the content
// store clients and the visibility write chain.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a lookup for a document that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied marks a write attempt with a credential that is
	// recognised by the store but lacks update rights. Recoverable: the
	// chain advances to the next channel.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrProjectMismatch marks a write attempt with a credential that does
	// not belong to the target project. Recoverable: the chain advances to
	// the next channel.
	ErrProjectMismatch = errors.New("project mismatch")

	// ErrNoWriteCredential is raised before any write when none of the
	// recognised credential environment slots is populated.
	ErrNoWriteCredential = errors.New("no write credential configured")
)

// PermissionError is raised when the write chain is exhausted and at least
// one channel was denied for lack of update rights.
type PermissionError struct {
	Channels []string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("none of the configured write credentials (%s) may update recipes; configure a token with update rights",
		strings.Join(e.Channels, ", "))
}

func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }

// ProjectMismatchError is raised when the write chain is exhausted and the
// dominant failure was a credential belonging to a different project.
type ProjectMismatchError struct {
	Project string
}

func (e *ProjectMismatchError) Error() string {
	return fmt.Sprintf("configured write credentials do not belong to project %q; use a token issued for that project", e.Project)
}

func (e *ProjectMismatchError) Unwrap() error { return ErrProjectMismatch }
