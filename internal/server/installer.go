package server

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-markdocs/internal/process"
)

// CommandInstaller installs the server by running a shell command in the
// install home.
type CommandInstaller struct {
	Command string
	Dir     string
}

// Install runs the command and waits for it. Canceling ctx terminates the
// command's process group.
func (i *CommandInstaller) Install(ctx context.Context) error {
	if strings.TrimSpace(i.Command) == "" {
		return fmt.Errorf("install command is empty")
	}

	var out bytes.Buffer
	cmd := process.ShellCommand(i.Command)
	cmd.Dir = i.Dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting install command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("install command: %w: %s", err, strings.TrimSpace(out.String()))
		}
		return nil
	case <-ctx.Done():
		_ = process.KillProcessGroup(cmd.Process.Pid)
		<-done
		return ctx.Err()
	}
}
