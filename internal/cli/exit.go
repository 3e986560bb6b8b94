package cli

import (
	"errors"

	"github.com/sdejongh/hadidi/pkg/models"
)

// ExitError carries a process exit code. A nil Err exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by the command tree to a process exit code.
// Classified errors use their kind; anything else (flag and argument errors
// included) exits with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if kind := models.KindOf(err); kind != "" {
		return kind.ExitCode()
	}
	return 1
}
