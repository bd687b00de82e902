//go:build !windows

package markdocs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-markdocs/internal/markup"
)

// slowStartServer answers the liveness ping with 503 for the first
// failures pings, then serves the real markup handler.
func slowStartServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var pings atomic.Int32
	next := markup.NewHandler(markup.NewConverter(), slog.New(slog.DiscardHandler))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/ping" && pings.Add(1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &pings
}

func installScript(t *testing.T, home, body string) {
	t.Helper()
	path := filepath.Join(home, ".markdocs", "MarkdocsService")
	writeFile(t, path, "#!/bin/sh\n"+body)
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestSession_Start_SpawnsAndStops(t *testing.T) {
	t.Parallel()

	srv, pings := slowStartServer(t, 2)
	cfg := newTestConfig(t, srv.URL)
	cfg.Server.PollInterval = "20ms"
	installScript(t, cfg.Server.Home, "echo booting\necho warming up >&2\nexec sleep 30\n")

	notifier := &recordingNotifier{}
	s := newTestSession(t, cfg, WithNotifier(notifier))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := pings.Load(); got != 3 {
		t.Errorf("pings = %d, want 3 (reattach ping plus two failed polls)", got)
	}

	h, err := s.Handle()
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if h.PID <= 0 || !h.Alive {
		t.Errorf("Handle() = %+v, want live process", h)
	}

	deadline := time.Now().Add(2 * time.Second)
	for notifier.errorCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	notifier.mu.Lock()
	got := strings.Join(notifier.errors, "\n")
	notifier.mu.Unlock()
	if !strings.Contains(got, "warming up") {
		t.Errorf("stderr not surfaced, notifier errors = %q", got)
	}
	if strings.Contains(got, "booting") {
		t.Error("stdout should not be surfaced as an error")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := s.Handle(); !errors.Is(err, ErrNoActiveServer) {
		t.Errorf("Handle() after Close error = %v, want ErrNoActiveServer", err)
	}
}

func TestSession_Start_CancelDuringReadinessWait(t *testing.T) {
	t.Parallel()

	srv, _ := slowStartServer(t, 1<<30)
	cfg := newTestConfig(t, srv.URL)
	cfg.Server.PollInterval = "10ms"
	installScript(t, cfg.Server.Home, "exec sleep 30\n")

	s := newTestSession(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if err := s.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Start() error = %v, want context.DeadlineExceeded", err)
	}
	if _, err := s.Handle(); err != nil {
		t.Errorf("Handle() error = %v, spawned process should still be tracked", err)
	}
}
