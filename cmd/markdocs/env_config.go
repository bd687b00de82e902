package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-markdocs/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // MARKDOCS_CONFIG: config file path
	Home           string // MARKDOCS_HOME: render server install home
	ServerURL      string // MARKDOCS_SERVER_URL: render server base URL
	InstallCommand string // MARKDOCS_INSTALL_COMMAND: dependency install command
	Listen         string // MARKDOCS_LISTEN: preview host address
}

// knownEnvVars lists valid MARKDOCS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKDOCS_CONFIG":          true,
	"MARKDOCS_HOME":            true,
	"MARKDOCS_SERVER_URL":      true,
	"MARKDOCS_INSTALL_COMMAND": true,
	"MARKDOCS_LISTEN":          true,
	"MARKDOCS_CONTAINER":       true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:     os.Getenv("MARKDOCS_CONFIG"),
		Home:           os.Getenv("MARKDOCS_HOME"),
		ServerURL:      os.Getenv("MARKDOCS_SERVER_URL"),
		InstallCommand: os.Getenv("MARKDOCS_INSTALL_COMMAND"),
		Listen:         os.Getenv("MARKDOCS_LISTEN"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized MARKDOCS_* variables.
// Helps catch typos like MARKDOCS_SERVERURL instead of MARKDOCS_SERVER_URL.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MARKDOCS_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded config.
// Precedence is CLI flags > env vars > config file > defaults; flags are
// applied afterwards by applyCommonFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Home != "" {
		cfg.Server.Home = env.Home
	}
	if env.ServerURL != "" {
		cfg.Server.URL = env.ServerURL
	}
	if env.InstallCommand != "" {
		cfg.Server.InstallCommand = env.InstallCommand
	}
}

// applyCommonFlags applies explicitly set flags over cfg.
func applyCommonFlags(f *commonFlags, cfg *config.Config) {
	if f.home != "" {
		cfg.Server.Home = f.home
	}
	if f.serverURL != "" {
		cfg.Server.URL = f.serverURL
	}
}

// loadConfig resolves the configuration for a command: the --config file,
// else MARKDOCS_CONFIG, else the standard search paths, then environment
// and flag overrides. Returns the config file used, or "" for defaults.
func loadConfig(f *commonFlags, env *envConfig) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)

	switch {
	case f.config != "":
		path = f.config
		cfg, err = config.LoadConfig(path)
	case env.ConfigPath != "":
		path = env.ConfigPath
		cfg, err = config.LoadConfig(path)
	default:
		cfg, path, err = config.Discover()
	}
	if err != nil {
		return nil, path, err
	}

	applyEnvConfig(env, cfg)
	applyCommonFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
