package spadeploy

import (
	"io"
)

// Client runs one task at a time and exposes its output streams.
type Client interface {
	Run(task *Task) error
	Wait() error
	Prefix() (string, int)
	Stdout() io.Reader
	Stderr() io.Reader
}
