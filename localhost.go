package spadeploy

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// LocalhostClient runs tasks as local subprocesses.
type LocalhostClient struct {
	cmd     *exec.Cmd
	task    *Task
	stdout  io.Reader
	stderr  io.Reader
	running bool
}

func (c *LocalhostClient) Run(task *Task) error {
	var err error

	if c.running {
		return fmt.Errorf("Command already running")
	}

	cmd := exec.Command(task.Command, task.Args...)
	cmd.Dir = task.Dir
	cmd.Env = append(os.Environ(), task.Env...)
	c.cmd = cmd
	c.task = task

	c.stdout, err = cmd.StdoutPipe()
	if err != nil {
		return err
	}

	c.stderr, err = cmd.StderrPipe()
	if err != nil {
		return err
	}

	if err := c.cmd.Start(); err != nil {
		return ErrTask{task, err.Error(), err}
	}

	c.running = true
	return nil
}

// Wait blocks until the task exits. Its output must be drained first.
func (c *LocalhostClient) Wait() error {
	if !c.running {
		return fmt.Errorf("Trying to wait on stopped command")
	}
	err := c.cmd.Wait()
	c.running = false
	if err != nil {
		return ErrTask{c.task, err.Error(), err}
	}
	return nil
}

func (c *LocalhostClient) Stderr() io.Reader {
	return c.stderr
}

func (c *LocalhostClient) Stdout() io.Reader {
	return c.stdout
}

func (c *LocalhostClient) Prefix() (string, int) {
	name := "localhost"
	if c.task != nil {
		name = c.task.Name
	}
	prefix := name + " | "
	return prefix, len(prefix)
}
