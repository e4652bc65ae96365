package spadeploy

import (
	"strings"

	"github.com/pkg/errors"
)

// Diagnostics collects what a component found while doing its job.
// Errors are fatal, warnings are not, infos are purely informational.
type Diagnostics struct {
	Errors   []string
	Warnings []string
	Infos    []string
}

func (d *Diagnostics) Error(msg string) {
	d.Errors = append(d.Errors, msg)
}

func (d *Diagnostics) Warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

func (d *Diagnostics) Info(msg ...string) {
	d.Infos = append(d.Infos, msg...)
}

// Merge appends all of o to d, keeping the order of both.
func (d *Diagnostics) Merge(o Diagnostics) {
	d.Errors = append(d.Errors, o.Errors...)
	d.Warnings = append(d.Warnings, o.Warnings...)
	d.Infos = append(d.Infos, o.Infos...)
}

func (d Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Err returns nil when there are no errors, otherwise ErrValidation
// annotated with every error message.
func (d Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	return errors.Wrap(ErrValidation, strings.Join(d.Errors, "; "))
}
