package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alnah/go-clip2html/internal/config"
)

// envPrefix marks variables read by clip2html.
const envPrefix = "CLIP2HTML_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // CLIP2HTML_CONFIG: config file path
	Provider   string // CLIP2HTML_PROVIDER: bedrock or ollama
	Model      string // CLIP2HTML_MODEL: model identifier
	Region     string // CLIP2HTML_REGION: AWS region
	Workspace  string // CLIP2HTML_WORKSPACE: output directory
	OllamaURL  string // CLIP2HTML_OLLAMA_URL: local model server
	Timeout    string // CLIP2HTML_TIMEOUT: Go duration
	Browser    string // CLIP2HTML_BROWSER: browser executable or .app
}

// knownEnvVars lists valid CLIP2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CLIP2HTML_CONFIG":     true,
	"CLIP2HTML_PROVIDER":   true,
	"CLIP2HTML_MODEL":      true,
	"CLIP2HTML_REGION":     true,
	"CLIP2HTML_WORKSPACE":  true,
	"CLIP2HTML_OLLAMA_URL": true,
	"CLIP2HTML_TIMEOUT":    true,
	"CLIP2HTML_BROWSER":    true,
}

// loadEnvConfig reads every recognized CLIP2HTML_* value.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("CLIP2HTML_CONFIG"),
		Provider:   getenv("CLIP2HTML_PROVIDER"),
		Model:      getenv("CLIP2HTML_MODEL"),
		Region:     getenv("CLIP2HTML_REGION"),
		Workspace:  getenv("CLIP2HTML_WORKSPACE"),
		OllamaURL:  getenv("CLIP2HTML_OLLAMA_URL"),
		Timeout:    getenv("CLIP2HTML_TIMEOUT"),
		Browser:    getenv("CLIP2HTML_BROWSER"),
	}
}

// warnUnknownEnvVars writes a warning for each unrecognized CLIP2HTML_* variable.
// Helps catch typos like CLIP2HTML_MODLE.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config file values with the environment.
// Order: config file < environment. Empty variables are ignored.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, strings.ToLower(env.Provider))
	set(&cfg.Model, env.Model)
	set(&cfg.Region, env.Region)
	set(&cfg.Workspace, env.Workspace)
	set(&cfg.Ollama.URL, env.OllamaURL)
	set(&cfg.Timeout, env.Timeout)
	set(&cfg.Browser.Path, env.Browser)
}
