package main

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	clip2html "github.com/alnah/go-clip2html"
	"github.com/alnah/go-clip2html/internal/browser"
	"github.com/alnah/go-clip2html/internal/clipboard"
	"github.com/alnah/go-clip2html/internal/config"
	"github.com/alnah/go-clip2html/internal/inference"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and the pipeline's outer parts.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	GOOS    string

	// Source returns the clipboard reader for a platform.
	Source func(goos string) clipboard.Source
	// Analyzer builds the inference client selected by the config.
	Analyzer func(ctx context.Context, cfg *config.Config) (inference.Analyzer, error)
	// Opener builds the browser launcher.
	Opener func(goos string, cfg *config.Config) clip2html.Opener
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		GOOS:     runtime.GOOS,
		Source:   clipboard.Default,
		Analyzer: newAnalyzer,
		Opener:   newOpener,
	}
}

// newAnalyzer builds the client for cfg.Provider.
func newAnalyzer(ctx context.Context, cfg *config.Config) (inference.Analyzer, error) {
	if cfg.Provider == config.ProviderOllama {
		return inference.NewOllamaClient(inference.OllamaSettings{
			URL:     cfg.Ollama.URL,
			Model:   cfg.Model,
			Timeout: cfg.TimeoutDuration(),
		}), nil
	}

	return inference.NewBedrockFromEnv(ctx, inference.BedrockSettings{
		Region:    cfg.Region,
		Model:     cfg.Model,
		Timeout:   cfg.TimeoutDuration(),
		MaxTokens: cfg.MaxTokens,
	})
}

// newOpener builds a launcher honoring the browser section of cfg.
func newOpener(goos string, cfg *config.Config) clip2html.Opener {
	opts := []browser.Option{browser.WithPreferred(cfg.PreferChrome())}
	if cfg.Browser.Path != "" {
		opts = append(opts, browser.WithBrowserPath(cfg.Browser.Path))
	}
	return browser.NewLauncher(goos, opts...)
}
