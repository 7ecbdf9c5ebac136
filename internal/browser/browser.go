// Package browser opens a rendered document in a web browser.
//
// Each platform has a preferred strategy (Google Chrome at its usual install
// location). When the preferred browser is missing or fails to start, the
// OS default URL handler is used instead.
package browser

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-rod/rod/lib/launcher"
	pkgbrowser "github.com/pkg/browser"

	"github.com/alnah/go-clip2html/internal/fileutil"
	"github.com/alnah/go-clip2html/internal/process"
)

// Sentinel errors for browser launching.
var (
	ErrLaunch       = errors.New("browser launch failed")
	ErrNotInstalled = errors.New("browser not installed")
)

// Well-known Chrome locations.
const (
	WindowsChromePath = "C:/Program Files/Google/Chrome/Application/chrome.exe"
	LinuxChromePath   = "/usr/bin/google-chrome"
	MacChromeApp      = "/Applications/Google Chrome.app"
)

// Env holds the operating system hooks used by strategies.
// Tests replace them with fakes.
type Env struct {
	// Start launches a long-lived program without waiting for it.
	Start func(name string, args ...string) error
	// Run executes a short-lived helper and waits for it.
	Run func(name string, args ...string) error
	// Exists reports whether a file or app bundle exists.
	Exists func(path string) bool
	// Discover locates a Chrome or Chromium executable anywhere on the system.
	Discover func() (string, bool)
	// OpenDefault opens a URL with the OS default handler.
	OpenDefault func(rawURL string) error
}

// silenceHelpers discards the output of xdg-open, open and rundll32.
var silenceHelpers sync.Once

// SystemEnv returns hooks backed by the real operating system. The default
// handler is xdg-open, open or rundll32 depending on the platform.
func SystemEnv() Env {
	silenceHelpers.Do(func() {
		pkgbrowser.Stdout = io.Discard
		pkgbrowser.Stderr = io.Discard
	})
	return Env{
		Start:       process.StartDetached,
		Run:         process.Run,
		Exists:      fileutil.Exists,
		Discover:    launcher.LookPath,
		OpenDefault: pkgbrowser.OpenURL,
	}
}

// Strategy opens a URL one particular way.
type Strategy struct {
	Name string
	Open func(env Env, rawURL string) error
}

// Strategies maps GOOS to the preferred launch strategy.
var Strategies = map[string]Strategy{
	"windows": {Name: "chrome", Open: chromeAt(WindowsChromePath)},
	"linux":   {Name: "chrome", Open: chromeAt(LinuxChromePath)},
	"darwin":  {Name: "chrome", Open: macApp(MacChromeApp)},
}

// DefaultStrategy opens the URL with the OS default handler.
var DefaultStrategy = Strategy{
	Name: "default",
	Open: func(env Env, rawURL string) error { return env.OpenDefault(rawURL) },
}

// chromeAt starts the executable at path, or any Chrome found on the
// system when path does not exist.
func chromeAt(path string) func(Env, string) error {
	return func(env Env, rawURL string) error {
		bin := path
		if !env.Exists(bin) {
			found, ok := env.Discover()
			if !ok {
				return fmt.Errorf("%w: %s", ErrNotInstalled, path)
			}
			bin = found
		}
		return env.Start(bin, rawURL)
	}
}

// macApp opens the URL with a macOS application bundle through "open -a".
func macApp(app string) func(Env, string) error {
	return func(env Env, rawURL string) error {
		if !env.Exists(app) {
			return fmt.Errorf("%w: %s", ErrNotInstalled, app)
		}
		return env.Run("open", "-a", app, rawURL)
	}
}

// customPath builds a strategy for a user-configured browser.
func customPath(path string) Strategy {
	if strings.HasSuffix(strings.TrimRight(path, `/\`), ".app") {
		return Strategy{Name: "configured", Open: macApp(path)}
	}
	return Strategy{
		Name: "configured",
		Open: func(env Env, rawURL string) error {
			if !env.Exists(path) {
				return fmt.Errorf("%w: %s", ErrNotInstalled, path)
			}
			return env.Start(path, rawURL)
		},
	}
}

// Attempt describes how a URL was opened.
type Attempt struct {
	Strategy string
	// PreferredErr is why the preferred strategy was skipped, if it was.
	PreferredErr error
}

// Fallback reports whether the default handler had to be used.
func (a Attempt) Fallback() bool {
	return a.PreferredErr != nil
}

// Launcher opens URLs following a platform's strategy with a default fallback.
type Launcher struct {
	platform  string
	env       Env
	preferred bool
	path      string
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithEnv replaces the operating system hooks.
func WithEnv(env Env) Option {
	return func(l *Launcher) { l.env = env }
}

// WithPreferred enables or disables the preferred browser. When disabled,
// only the default handler is used.
func WithPreferred(enabled bool) Option {
	return func(l *Launcher) { l.preferred = enabled }
}

// WithBrowserPath uses the browser at path instead of the platform's
// preferred one.
func WithBrowserPath(path string) Option {
	return func(l *Launcher) { l.path = path }
}

// NewLauncher creates a Launcher for platform (a GOOS value).
func NewLauncher(platform string, opts ...Option) *Launcher {
	l := &Launcher{platform: platform, env: SystemEnv(), preferred: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// preferredStrategy returns the strategy tried first, if any.
func (l *Launcher) preferredStrategy() (Strategy, bool) {
	if !l.preferred {
		return Strategy{}, false
	}
	if l.path != "" {
		return customPath(l.path), true
	}
	s, ok := Strategies[l.platform]
	return s, ok
}

// Open opens rawURL. The preferred strategy is tried once; on failure the
// default handler is tried once. The returned error wraps ErrLaunch only
// when both fail.
func (l *Launcher) Open(rawURL string) (Attempt, error) {
	var preferredErr error

	if s, ok := l.preferredStrategy(); ok {
		err := s.Open(l.env, rawURL)
		if err == nil {
			return Attempt{Strategy: s.Name}, nil
		}
		preferredErr = fmt.Errorf("%s: %w", s.Name, err)
	}

	if err := DefaultStrategy.Open(l.env, rawURL); err != nil {
		return Attempt{Strategy: DefaultStrategy.Name, PreferredErr: preferredErr},
			fmt.Errorf("%w: %w", ErrLaunch, errors.Join(preferredErr, err))
	}

	return Attempt{Strategy: DefaultStrategy.Name, PreferredErr: preferredErr}, nil
}

// FileURL converts a local path to a file:// URL.
// Windows drive paths become file:///C:/...
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
