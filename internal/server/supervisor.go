package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/fileutil"
	"github.com/alnah/go-markdocs/internal/process"
)

// BinaryCandidates lists server binaries relative to the install home, in
// lookup order.
var BinaryCandidates = []string{
	".markdocs/MarkdocsService.exe",
	".markdocs/MarkdocsService",
}

// Pinger checks server liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Installer provisions the server under the install home. A successful
// install leaves the marker file in place.
type Installer interface {
	Install(ctx context.Context) error
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Error(msg string)
}

// Process is a spawned server process.
type Process interface {
	Pid() int
	Wait() error
}

// Launcher spawns a shell command line with the given output sinks.
type Launcher interface {
	Launch(command string, stdout, stderr io.Writer) (Process, error)
}

// Handle describes the supervised process.
type Handle struct {
	PID   int
	Alive bool
}

// Supervisor manages the lifecycle of one render server process.
type Supervisor struct {
	home       string
	marker     string
	candidates []string
	interval   time.Duration

	pinger    Pinger
	installer Installer
	launcher  Launcher
	notifier  Notifier
	logger    *slog.Logger
	kill      func(pid int) error

	mu    sync.Mutex
	proc  Process
	pid   int
	alive bool
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithInstaller sets the installer run by EnsureDependencies.
func WithInstaller(i Installer) Option {
	return func(s *Supervisor) { s.installer = i }
}

// WithLauncher replaces the shell launcher.
func WithLauncher(l Launcher) Option {
	return func(s *Supervisor) { s.launcher = l }
}

// WithNotifier sets the sink for server stderr output.
func WithNotifier(n Notifier) Option {
	return func(s *Supervisor) { s.notifier = n }
}

// WithLogger sets the logger. Server stdout is logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithPollInterval overrides the readiness poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMarkerFile overrides the install marker file name.
func WithMarkerFile(name string) Option {
	return func(s *Supervisor) {
		if name != "" {
			s.marker = name
		}
	}
}

// New creates a Supervisor for the server installed under home.
func New(home string, pinger Pinger, opts ...Option) *Supervisor {
	s := &Supervisor{
		home:       home,
		marker:     config.DefaultMarkerFile,
		candidates: BinaryCandidates,
		interval:   config.DefaultPollInterval,
		pinger:     pinger,
		launcher:   shellLauncher{},
		notifier:   discardNotifier{},
		logger:     slog.New(slog.DiscardHandler),
		kill:       process.KillProcessGroup,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkerPath returns the absolute path of the install marker.
func (s *Supervisor) MarkerPath() string {
	return filepath.Join(s.home, s.marker)
}

// EnsureDependencies runs the installer unless the install marker exists.
func (s *Supervisor) EnsureDependencies(ctx context.Context) error {
	if fileutil.FileExists(s.MarkerPath()) {
		return nil
	}
	if s.installer == nil {
		return fmt.Errorf("%w: no installer configured and %s is missing", ErrInstallationFailed, s.MarkerPath())
	}

	s.logger.Info("installing render server", "home", s.home)
	if err := s.installer.Install(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInstallationFailed, err)
	}
	if !fileutil.FileExists(s.MarkerPath()) {
		return fmt.Errorf("%w: installer finished but %s is missing", ErrInstallationFailed, s.MarkerPath())
	}
	return nil
}

// Start makes sure a render server is reachable. It returns once the
// liveness ping succeeds, or with the context error if ctx ends first.
func (s *Supervisor) Start(ctx context.Context) error {
	if err := s.pinger.Ping(ctx); err == nil {
		s.logger.Debug("render server already running")
		return nil
	}
	if s.running() {
		s.logger.Debug("waiting for spawned render server")
		return s.waitReady(ctx)
	}

	bin, ok := fileutil.FirstExisting(s.home, s.candidates)
	if !ok {
		return fmt.Errorf("%w: looked for %v under %s", ErrServerBinaryNotFound, s.candidates, s.home)
	}

	if err := s.spawn(bin); err != nil {
		return err
	}
	return s.waitReady(ctx)
}

// running reports whether a process spawned by an earlier Start is still
// alive.
func (s *Supervisor) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil && s.alive
}

func (s *Supervisor) spawn(bin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stdout := &logWriter{logger: s.logger}
	stderr := &notifyWriter{notifier: s.notifier}

	proc, err := s.launcher.Launch(process.Quote(bin), stdout, stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}
	if proc == nil || proc.Pid() <= 0 {
		return fmt.Errorf("%w: process has no PID", ErrSpawnFailed)
	}

	s.proc = proc
	s.pid = proc.Pid()
	s.alive = true
	s.logger.Info("render server spawned", "pid", s.pid, "binary", bin)

	go s.reap(proc)
	return nil
}

func (s *Supervisor) reap(proc Process) {
	err := proc.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != proc {
		return
	}
	s.alive = false
	s.logger.Debug("render server exited", "pid", s.pid, "error", err)
}

func (s *Supervisor) waitReady(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := s.pinger.Ping(ctx); err == nil {
			s.logger.Info("render server ready", "attempts", attempt)
			return nil
		}
	}
}

// Stop terminates the spawned server. It is a no-op when no process was
// spawned by this supervisor or the process has already exited.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return nil
	}
	pid, alive := s.pid, s.alive
	s.proc, s.pid, s.alive = nil, 0, false

	// An exited PID may already belong to another process.
	if !alive {
		s.logger.Debug("render server already exited", "pid", pid)
		return nil
	}
	if err := s.kill(pid); err != nil {
		return fmt.Errorf("stopping server pid %d: %w", pid, err)
	}
	s.logger.Info("render server stopped", "pid", pid)
	return nil
}

// Handle reports the supervised process, or ErrNoActiveServer.
func (s *Supervisor) Handle() (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return Handle{}, ErrNoActiveServer
	}
	return Handle{PID: s.pid, Alive: s.alive}, nil
}
