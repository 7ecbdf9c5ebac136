package clip2html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-clip2html/internal/clipboard"
	"github.com/alnah/go-clip2html/internal/inference"
	"github.com/alnah/go-clip2html/internal/render"
	"github.com/alnah/go-clip2html/internal/workspace"
)

// State is the stage a run reached.
type State int

// Run states. The last three are early exits.
const (
	StateInit State = iota
	StateCleaned
	StateCaptured
	StateInferred
	StateRendered
	StatePresented
	StateNoImage
	StateInferenceFailed
	StateFailed
)

var stateNames = [...]string{
	StateInit:            "init",
	StateCleaned:         "cleaned",
	StateCaptured:        "captured",
	StateInferred:        "inferred",
	StateRendered:        "rendered",
	StatePresented:       "presented",
	StateNoImage:         "no-image",
	StateInferenceFailed: "inference-failed",
	StateFailed:          "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether a run in state s is over.
func (s State) Terminal() bool {
	switch s {
	case StatePresented, StateNoImage, StateInferenceFailed, StateFailed:
		return true
	}
	return false
}

// User-facing messages.
const (
	MsgNoImage     = "No screenshot found in clipboard. Please copy an image first."
	msgProcessing  = "Error processing image: "
	msgParsing     = "Error parsing response: "
	msgCreatedFile = "Created new file: "
)

// Outcome is the result of one run.
type Outcome struct {
	State  State
	Path   string           // written document, when one was written
	Result inference.Result // model response, when inference ran
	Title  string           // document title, when rendering ran

	// Cleanup lists the stale documents removed before capture.
	Cleanup workspace.CleanupReport

	// Err is why the run stopped early.
	Err error
	// Warning is a non-fatal failure: ErrBrowserLaunch or ErrRender.
	Warning error
}

// Message returns the single line shown to the user for this outcome.
func (o Outcome) Message() string {
	switch o.State {
	case StatePresented:
		return msgCreatedFile + o.Path
	case StateNoImage:
		return MsgNoImage
	case StateInferenceFailed:
		if errors.Is(o.Err, ErrResponseShape) {
			return msgParsing + detail(o.Err, ErrResponseShape)
		}
		return msgProcessing + detail(o.Err, ErrTransport)
	case StateFailed:
		if o.Err != nil {
			return o.Err.Error()
		}
	}
	return ""
}

// detail strips the sentinel prefix so the message shows only the cause.
func detail(err, sentinel error) string {
	if err == nil {
		return "unknown error"
	}
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// Renderer converts markdown into a document.
type Renderer interface {
	Render(markdown string) render.Document
}

// Pipeline runs one capture, inference, render and present cycle.
// Create with NewPipeline and run with Run.
type Pipeline struct {
	source      clipboard.Source
	analyzer    inference.Analyzer
	renderer    Renderer
	opener      Opener
	dir         string
	instruction string
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSource sets the clipboard source.
func WithSource(s clipboard.Source) Option {
	return func(p *Pipeline) { p.source = s }
}

// WithAnalyzer sets the inference client.
func WithAnalyzer(a inference.Analyzer) Option {
	return func(p *Pipeline) { p.analyzer = a }
}

// WithRenderer sets the document renderer.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithOpener sets the browser opener. A nil opener only writes the file.
func WithOpener(o Opener) Option {
	return func(p *Pipeline) { p.opener = o }
}

// WithWorkspace sets the workspace directory. Default: ~/screenshot_analysis.
func WithWorkspace(dir string) Option {
	return func(p *Pipeline) { p.dir = dir }
}

// WithInstruction replaces the prompt sent with the image.
func WithInstruction(instruction string) Option {
	return func(p *Pipeline) { p.instruction = instruction }
}

// WithNow sets the clock used to name documents.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the diagnostics logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a Pipeline. Source, analyzer and renderer must be set.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		instruction: inference.Instruction,
		now:         time.Now,
		logger:      discardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs one cycle. It never panics on a failure of any stage; the
// returned Outcome says where and why the run stopped.
func (p *Pipeline) Run(ctx context.Context) Outcome {
	out := Outcome{State: StateInit}

	if p.source == nil || p.analyzer == nil || p.renderer == nil {
		return p.fail(out, errors.New("pipeline: source, analyzer and renderer are required"))
	}

	dir, err := p.workspace()
	if err != nil {
		return p.fail(out, err)
	}

	out.Cleanup = workspace.Cleanup(dir)
	if out.Cleanup.ListErr != nil {
		p.logger.Warn("could not list workspace", "dir", dir, "error", out.Cleanup.ListErr)
	}
	for _, path := range out.Cleanup.Removed {
		p.logger.Info("deleted old file", "path", path)
	}
	for _, f := range out.Cleanup.Failed {
		p.logger.Warn("could not delete old file", "path", f.Path, "error", f.Err)
	}
	out.State = StateCleaned

	capturedAt := p.now()
	img, err := p.source.ReadImage(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return p.fail(out, ctxErr)
		}
		if !errors.Is(err, ErrNoImage) {
			p.logger.Warn("clipboard not readable", "error", err)
			err = fmt.Errorf("%w: %w", ErrNoImage, err)
		}
		p.logger.Debug("no image", "cause", err)
		out.State = StateNoImage
		out.Err = err
		return out
	}
	p.logger.Debug("captured image",
		"format", img.Format,
		"origin", img.Origin,
		"size", img.Image.Bounds().Size().String())
	out.State = StateCaptured

	res := p.analyzer.Analyze(ctx, img.Image, p.instruction)
	out.Result = res
	if !res.OK() {
		if res.Err == nil {
			res.Err = fmt.Errorf("%w: missing text", ErrResponseShape)
			out.Result = res
		}
		out.State = StateInferenceFailed
		out.Err = res.Err
		return out
	}
	p.logger.Debug("inference complete",
		"model", res.Model,
		"stop_reason", res.StopReason,
		"input_tokens", res.Usage.InputTokens,
		"output_tokens", res.Usage.OutputTokens,
		"total_tokens", res.Usage.TotalTokens)
	out.State = StateInferred

	doc := p.renderer.Render(res.Text)
	out.Title = doc.Title
	if doc.Err != nil {
		p.logger.Warn("markdown rendered as plain text", "error", doc.Err)
		out.Warning = doc.Err
	}
	out.State = StateRendered

	presenter := NewPresenter(dir, p.opener, p.logger)
	path, err := presenter.Present(ctx, doc, capturedAt)
	if path == "" {
		return p.fail(out, err)
	}
	out.Path = path
	if err != nil {
		p.logger.Warn("could not open browser", "path", path, "error", err)
		out.Warning = err
	}
	out.State = StatePresented

	return out
}

// workspace resolves and creates the workspace directory.
func (p *Pipeline) workspace() (string, error) {
	dir := p.dir
	if dir == "" {
		var err error
		if dir, err = workspace.DefaultDir(); err != nil {
			return "", err
		}
	}
	return workspace.Ensure(dir)
}

// fail ends the run in StateFailed.
func (p *Pipeline) fail(out Outcome, err error) Outcome {
	p.logger.Debug("run failed", "state", out.State.String(), "error", err)
	out.State = StateFailed
	out.Err = err
	return out
}

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Compile-time interface checks.
var (
	_ Renderer = (*render.Renderer)(nil)
)
