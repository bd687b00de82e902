package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPing - Liveness ping
// ---------------------------------------------------------------------------

func TestPing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "ok", status: http.StatusOK},
		{name: "no content is success", status: http.StatusNoContent},
		{name: "server error", status: http.StatusServiceUnavailable, wantErr: ErrServerUnreachable},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrServerUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != PingPath || r.Method != http.MethodGet {
					t.Errorf("request = %s %s, want GET %s", r.Method, r.URL.Path, PingPath)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := New(srv.URL).Ping(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Ping() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPing_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := New(url).Ping(context.Background()); !errors.Is(err, ErrServerUnreachable) {
		t.Errorf("Ping() error = %v, want ErrServerUnreachable", err)
	}
}

// ---------------------------------------------------------------------------
// TestRender - Markup request
// ---------------------------------------------------------------------------

func TestRender_SendsContextAndReturnsContent(t *testing.T) {
	t.Parallel()

	var got MarkupRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != MarkupPath {
			t.Errorf("request = %s %s, want POST %s", r.Method, r.URL.Path, MarkupPath)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(MarkupResponse{Content: "<h1>Title</h1>"})
	}))
	defer srv.Close()

	html, err := New(srv.URL+"/").Render(context.Background(), "# Title", "sub/file.md", "C:/docs")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if html != "<h1>Title</h1>" {
		t.Errorf("Render() = %q", html)
	}
	want := MarkupRequest{Content: "# Title", FilePath: "sub/file.md", BasePath: "C:/docs"}
	if got != want {
		t.Errorf("request body = %+v, want %+v", got, want)
	}
}

func TestRender_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantMessage string
	}{
		{
			name: "non-2xx status carries body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "docfx exploded", http.StatusInternalServerError)
			},
			wantMessage: "docfx exploded",
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json"))
			},
			wantMessage: "decoding response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := New(srv.URL).Render(context.Background(), "x", "a.md", "/docs")
			if !errors.Is(err, ErrRenderRequestFailed) {
				t.Fatalf("Render() error = %v, want ErrRenderRequestFailed", err)
			}
			if !strings.Contains(err.Error(), tt.wantMessage) {
				t.Errorf("error %q should contain %q", err, tt.wantMessage)
			}
		})
	}
}

func TestRender_NotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _ = New(srv.URL).Render(context.Background(), "x", "a.md", "/docs")
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestRender_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(srv.URL).Render(ctx, "x", "a.md", "/docs"); !errors.Is(err, ErrRenderRequestFailed) {
		t.Errorf("Render() error = %v, want ErrRenderRequestFailed", err)
	}
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	hc := &http.Client{}
	c := New("http://localhost:4462", WithHTTPClient(hc))
	if c.http != hc {
		t.Error("WithHTTPClient did not replace the HTTP client")
	}
	if c.BaseURL() != "http://localhost:4462" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}
