package spadeploy

import (
	"strings"

	"github.com/pkg/errors"
)

// Task represents a command to be run in the output directory.
type Task struct {
	Name    string // Prefixes the command's output.
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// NewTask splits a command line on whitespace. Quoting is not supported.
func NewTask(name, line, dir string) (*Task, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.Errorf("%s: empty command", name)
	}
	return &Task{
		Name:    name,
		Command: fields[0],
		Args:    fields[1:],
		Dir:     dir,
	}, nil
}

func (t *Task) String() string {
	return strings.Join(append([]string{t.Command}, t.Args...), " ")
}

// createTasks returns the install task followed, unless this is a dry
// run, by the deploy task.
func (p *Pipeline) createTasks() ([]*Task, error) {
	var tasks []*Task

	install, err := NewTask("install", p.conf.Install, p.conf.OutDir)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, install)

	if p.conf.DryRun {
		return tasks, nil
	}

	deploy, err := NewTask("deploy", p.conf.Deployer, p.conf.OutDir)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, deploy)

	return tasks, nil
}
