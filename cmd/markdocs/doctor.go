package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-markdocs/internal/client"
	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/fileutil"
	"github.com/alnah/go-markdocs/internal/server"
)

// pingTimeout bounds the doctor's render server ping.
const pingTimeout = 2 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Server   serverInfo `json:"server"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo holds the resolved configuration source.
type configInfo struct {
	Path  string `json:"path,omitempty"`
	Valid bool   `json:"valid"`
}

// serverInfo holds render server detection results.
type serverInfo struct {
	Home      string `json:"home"`
	URL       string `json:"url"`
	Binary    string `json:"binary,omitempty"`
	Installed bool   `json:"installed"`
	Reachable bool   `json:"reachable"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error: "+err.Error())
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, &f.common)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, f *commonFlags) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	if cfg := checkConfig(result, f); cfg != nil {
		checkServer(ctx, result, cfg)
	}
	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads the configuration the other commands would use.
func checkConfig(result *doctorResult, f *commonFlags) *config.Config {
	cfg, path, err := loadConfig(f, loadEnvConfig())
	result.Config.Path = path
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return nil
	}
	result.Config.Valid = true
	return cfg
}

// checkServer locates the render server install and pings the server URL.
func checkServer(ctx context.Context, result *doctorResult, cfg *config.Config) {
	result.Server.Home = cfg.Server.Home
	result.Server.URL = cfg.Server.URL

	marker := filepath.Join(cfg.Server.Home, filepath.FromSlash(cfg.Server.MarkerFile))
	result.Server.Installed = fileutil.FileExists(marker)

	bin, found := fileutil.FirstExisting(cfg.Server.Home, server.BinaryCandidates)
	if found {
		result.Server.Binary = bin
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	result.Server.Reachable = client.New(cfg.Server.URL).Ping(pingCtx) == nil

	switch {
	case result.Server.Reachable:
	case !found:
		result.Errors = append(result.Errors,
			fmt.Sprintf("Render server not installed under %s and not reachable at %s", cfg.Server.Home, cfg.Server.URL))
	default:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Render server not running at %s; it will be started on demand", cfg.Server.URL))
	}
	if !result.Server.Installed && cfg.Server.InstallCommand == "" && !found {
		result.Warnings = append(result.Warnings,
			"No install marker and no server.installCommand; set MARKDOCS_INSTALL_COMMAND")
	}
}

// checkChrome detects the Chrome/Chromium used by export.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; export needs Chrome or ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- browser path from rod lookup or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for export")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MARKDOCS_CONTAINER") == "1" {
		return true, "MARKDOCS_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory export writes pages to.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "markdocs-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "markdocs doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	switch {
	case !r.Config.Valid:
		fmt.Fprintln(w, "  [ERROR] Invalid")
	case r.Config.Path != "":
		fmt.Fprintf(w, "  [OK] Loaded from %s\n", r.Config.Path)
	default:
		fmt.Fprintln(w, "  [OK] Defaults (no config file)")
	}
	fmt.Fprintln(w)

	if r.Config.Valid {
		fmt.Fprintln(w, "Render server")
		fmt.Fprintf(w, "  [OK] Home: %s\n", r.Server.Home)
		if r.Server.Binary != "" {
			fmt.Fprintf(w, "  [OK] Binary: %s\n", r.Server.Binary)
		} else {
			fmt.Fprintln(w, "  [WARN] Binary: not found")
		}
		if r.Server.Reachable {
			fmt.Fprintf(w, "  [OK] Reachable at %s\n", r.Server.URL)
		} else {
			fmt.Fprintf(w, "  [WARN] Not reachable at %s\n", r.Server.URL)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Chrome/Chromium (export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to preview")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
