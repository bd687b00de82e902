// Command markdocsd is a render server for markdocs. It answers
// GET /api/ping and converts markdown on POST /api/markup.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-markdocs/internal/markup"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	defaultAddr     = "127.0.0.1:4462"
	shutdownTimeout = 5 * time.Second
)

// options holds parsed command-line flags.
type options struct {
	addr     string
	maxBytes int64
	verbose  bool
	version  bool
}

func main() {
	ctx, stop := notifyContext(context.Background())
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, w io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("markdocsd", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.StringVar(&o.addr, "addr", defaultAddr, "listen address")
	fs.Int64Var(&o.maxBytes, "max-request-bytes", markup.DefaultMaxRequestBytes, "markup request body limit")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log every request")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

// run serves until ctx is canceled.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintf(stdout, "markdocsd %s\n", Version)
		return nil
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ln, err := net.Listen("tcp", o.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", o.addr, err)
	}
	logger.Info("render server listening", "addr", ln.Addr().String(), "version", Version)

	return serve(ctx, ln, newServer(logger, o.maxBytes))
}

func newServer(logger *slog.Logger, maxBytes int64) *http.Server {
	return &http.Server{
		Handler:           markup.NewHandler(markup.NewConverter(), logger, markup.WithMaxRequestBytes(maxBytes)),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}

// serve runs srv on ln and shuts it down gracefully when ctx ends.
func serve(ctx context.Context, ln net.Listener, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
