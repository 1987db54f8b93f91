package track

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWorkspaceNotFound is returned when no workspace matches the
	// configured name. Fatal for the run.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrProjectNotFound is returned when the workspace has no project with
	// the given name.
	ErrProjectNotFound = errors.New("project not found")

	// ErrUserNotFound is returned when no workspace user matches the email.
	ErrUserNotFound = errors.New("user not found")
)

// StatusError reports a non-success response from the tracking service.
type StatusError struct {
	Operation string
	Status    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Operation, e.Status)
}

// IsNotFound reports whether the error is one of the lookup failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkspaceNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
