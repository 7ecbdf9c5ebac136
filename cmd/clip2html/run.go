package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	clip2html "github.com/alnah/go-clip2html"
	"github.com/alnah/go-clip2html/internal/clipboard"
	"github.com/alnah/go-clip2html/internal/config"
	"github.com/alnah/go-clip2html/internal/fileutil"
	"github.com/alnah/go-clip2html/internal/hints"
	"github.com/alnah/go-clip2html/internal/inference"
	"github.com/alnah/go-clip2html/internal/render"
)

// runMain runs one capture cycle and returns the process exit code.
// args excludes the program name.
func runMain(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "clip2html %s\n", Version)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, flags)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := loadConfig(flags, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, configHint(err))
		return exitCodeFor(err)
	}
	logger.Debug("config loaded", "provider", cfg.Provider, "model", cfg.Model, "workspace", cfg.Workspace)

	// Built on first use: cleanup and capture run before provider setup.
	analyzer := inference.NewLazyAnalyzer(func(ctx context.Context) (inference.Analyzer, error) {
		return env.Analyzer(ctx, cfg)
	})

	renderer, err := render.New()
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitGeneral
	}

	opts := []clip2html.Option{
		clip2html.WithSource(env.Source(env.GOOS)),
		clip2html.WithAnalyzer(analyzer),
		clip2html.WithRenderer(renderer),
		clip2html.WithWorkspace(cfg.Workspace),
		clip2html.WithNow(env.Now),
		clip2html.WithLogger(logger),
	}
	if !flags.noOpen {
		opts = append(opts, clip2html.WithOpener(env.Opener(env.GOOS, cfg)))
	}

	outcome := clip2html.NewPipeline(opts...).Run(ctx)
	report(env, outcome)

	return exitCodeFor(outcome.Err)
}

// loadConfig resolves the config file, then applies environment overrides.
// Order: defaults < config file < environment.
func loadConfig(flags *cliFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	path, explicit := flags.config, true
	if path == "" {
		path = envCfg.ConfigPath
	}
	if path != "" {
		resolved, err := config.ResolvePath(path)
		if err != nil {
			return nil, err
		}
		path = resolved
	} else {
		// No home directory means no default file; defaults still apply.
		path, _ = config.DefaultPath()
		explicit = false
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path, explicit); err != nil {
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Workspace != "" {
		dir, err := fileutil.ExpandHome(cfg.Workspace)
		if err != nil {
			return nil, err
		}
		cfg.Workspace = dir
	}

	return cfg, nil
}

// configHint returns a hint for config loading errors.
func configHint(err error) string {
	if !errors.Is(err, config.ErrConfigNotFound) {
		return ""
	}
	path, _ := config.DefaultPath()
	return hints.ForConfigNotFound(path)
}

// report prints the outcome line and any warning.
// Successful and no-image lines go to stdout, failures to stderr.
func report(env *Environment, o clip2html.Outcome) {
	switch o.State {
	case clip2html.StatePresented, clip2html.StateNoImage:
		fmt.Fprintln(env.Stdout, o.Message())
	default:
		fmt.Fprintf(env.Stderr, "%s%s\n", o.Message(), outcomeHint(o.Err))
	}

	if o.State == clip2html.StateNoImage {
		if h := hints.ForNoImage(env.GOOS, errors.Is(o.Err, clipboard.ErrUnavailable)); h != "" {
			fmt.Fprintln(env.Stderr, h[1:])
		}
	}

	if errors.Is(o.Warning, clip2html.ErrBrowserLaunch) {
		fmt.Fprintf(env.Stderr, "warning: %v%s\n", o.Warning, hints.ForBrowser())
	}
}

// outcomeHint returns the hint matching a failed run.
func outcomeHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, clip2html.ErrTransport):
		return hints.ForTransport(err)
	case errors.Is(err, clip2html.ErrWorkspace), errors.Is(err, clip2html.ErrWriteDocument):
		return hints.ForWorkspace()
	}
	return ""
}

// newLogger returns a text logger on w. --verbose shows debug records,
// --quiet only errors. Timestamps are dropped; each run is short.
func newLogger(w io.Writer, flags *cliFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case flags.verbose:
		level = slog.LevelDebug
	case flags.quiet:
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}
