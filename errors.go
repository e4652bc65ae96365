package spadeploy

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUsage is returned when the tool is invoked without a required value.
	ErrUsage = errors.New("invalid usage")

	// ErrValidation is returned when the descriptor or the app directory
	// have fatal problems. Nothing has been written when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownProvider is returned by the asset, manifest and driver
	// steps for a provider they do not know how to handle.
	ErrUnknownProvider = errors.New("unknown provider")
)

// ErrTask is returned when a subprocess fails to start or exits non-zero.
type ErrTask struct {
	Task   *Task
	Reason string
	Err    error
}

func (e ErrTask) Error() string {
	return fmt.Sprintf(`Run("%v"): %v`, e.Task, e.Reason)
}

func (e ErrTask) Unwrap() error {
	return e.Err
}

// ExitCode is the subprocess exit status, or 1 when it never ran.
func (e ErrTask) ExitCode() int {
	var exit interface{ ExitCode() int }
	if errors.As(e.Err, &exit) && exit.ExitCode() > 0 {
		return exit.ExitCode()
	}
	return 1
}
