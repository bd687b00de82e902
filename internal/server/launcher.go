package server

import (
	"bytes"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/alnah/go-markdocs/internal/process"
)

// shellLauncher runs commands through the platform shell.
type shellLauncher struct{}

func (shellLauncher) Launch(command string, stdout, stderr io.Writer) (Process, error) {
	cmd := process.ShellCommand(command)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

// notifyWriter forwards each write to the notifier.
type notifyWriter struct {
	notifier Notifier
}

func (w *notifyWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimRight(string(p), "\r\n"); msg != "" {
		w.notifier.Error(msg)
	}
	return len(p), nil
}

// logWriter logs each line at debug level.
type logWriter struct {
	logger *slog.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\r\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.logger.Debug(string(bytes.TrimRight(line, "\r")), "component", "server")
	}
	return len(p), nil
}

type discardNotifier struct{}

func (discardNotifier) Error(string) {}
