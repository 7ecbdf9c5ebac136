package clip2html

// Notes:
// - Clipboard, model and browser are fakes; the renderer and the workspace
//   are real and write into t.TempDir().
// - DefaultDir (the home-based workspace) is never used: every test passes
//   WithWorkspace.

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-clip2html/internal/browser"
	"github.com/alnah/go-clip2html/internal/clipboard"
	"github.com/alnah/go-clip2html/internal/inference"
	"github.com/alnah/go-clip2html/internal/render"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeSource struct {
	img   *clipboard.Image
	err   error
	calls int
}

func (f *fakeSource) ReadImage(context.Context) (*clipboard.Image, error) {
	f.calls++
	return f.img, f.err
}

type fakeAnalyzer struct {
	res   inference.Result
	calls int
	got   string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ image.Image, instruction string) inference.Result {
	f.calls++
	f.got = instruction
	return f.res
}

type fakeOpener struct {
	err  error
	urls []string
}

func (f *fakeOpener) Open(rawURL string) (browser.Attempt, error) {
	f.urls = append(f.urls, rawURL)
	return browser.Attempt{Strategy: "fake"}, f.err
}

func screenshot() *clipboard.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return &clipboard.Image{Image: img, Format: "png", Origin: "fake"}
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("render.New() error = %v", err)
	}
	return r
}

var fixedNow = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

func htmlFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

// ---------------------------------------------------------------------------
// TestPipeline_Run - End-to-end scenarios
// ---------------------------------------------------------------------------

func TestPipeline_Run_EmptyClipboard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	analyzer := &fakeAnalyzer{}
	opener := &fakeOpener{}

	out := NewPipeline(
		WithSource(&fakeSource{err: clipboard.ErrNoImage}),
		WithAnalyzer(analyzer),
		WithRenderer(newRenderer(t)),
		WithOpener(opener),
		WithWorkspace(dir),
	).Run(context.Background())

	if out.State != StateNoImage {
		t.Fatalf("State = %s, want %s", out.State, StateNoImage)
	}
	if !errors.Is(out.Err, ErrNoImage) {
		t.Errorf("Err = %v, want ErrNoImage", out.Err)
	}
	if got := out.Message(); got != "No screenshot found in clipboard. Please copy an image first." {
		t.Errorf("Message() = %q", got)
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer called %d times, want 0", analyzer.calls)
	}
	if len(opener.urls) != 0 {
		t.Errorf("browser opened %v, want nothing", opener.urls)
	}
	if files := htmlFiles(t, dir); len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestPipeline_Run_ClipboardUnavailable(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{}
	out := NewPipeline(
		WithSource(&fakeSource{err: fmt.Errorf("%w: no clipboard tool found", clipboard.ErrUnavailable)}),
		WithAnalyzer(analyzer),
		WithRenderer(newRenderer(t)),
		WithWorkspace(t.TempDir()),
	).Run(context.Background())

	if out.State != StateNoImage {
		t.Fatalf("State = %s, want %s", out.State, StateNoImage)
	}
	if !errors.Is(out.Err, ErrNoImage) {
		t.Errorf("Err = %v, want ErrNoImage", out.Err)
	}
	if out.Message() != MsgNoImage {
		t.Errorf("Message() = %q", out.Message())
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer called %d times, want 0", analyzer.calls)
	}
}

func TestPipeline_Run_InferenceFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		res        inference.Result
		wantErr    error
		wantPrefix string
		wantDetail string
	}{
		{
			name:       "malformed envelope",
			res:        inference.Result{Err: fmt.Errorf("%w: missing output.message.content[0].text", inference.ErrResponseShape)},
			wantErr:    ErrResponseShape,
			wantPrefix: "Error parsing response: ",
			wantDetail: "missing output.message.content[0].text",
		},
		{
			name:       "transport",
			res:        inference.Result{Err: fmt.Errorf("%w: %w", inference.ErrTransport, errors.New("dial tcp: connection refused"))},
			wantErr:    ErrTransport,
			wantPrefix: "Error processing image: ",
			wantDetail: "dial tcp: connection refused",
		},
		{
			name:       "encoding",
			res:        inference.Result{Err: fmt.Errorf("%w: nil image", inference.ErrEncode)},
			wantErr:    ErrEncode,
			wantPrefix: "Error processing image: ",
			wantDetail: "nil image",
		},
		{
			name:       "empty success is a shape failure",
			res:        inference.Result{},
			wantErr:    ErrResponseShape,
			wantPrefix: "Error parsing response: ",
			wantDetail: "missing text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			analyzer := &fakeAnalyzer{res: tt.res}
			opener := &fakeOpener{}

			out := NewPipeline(
				WithSource(&fakeSource{img: screenshot()}),
				WithAnalyzer(analyzer),
				WithRenderer(newRenderer(t)),
				WithOpener(opener),
				WithWorkspace(dir),
			).Run(context.Background())

			if out.State != StateInferenceFailed {
				t.Fatalf("State = %s, want %s", out.State, StateInferenceFailed)
			}
			if !errors.Is(out.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", out.Err, tt.wantErr)
			}
			msg := out.Message()
			if !strings.HasPrefix(msg, tt.wantPrefix) {
				t.Errorf("Message() = %q, want prefix %q", msg, tt.wantPrefix)
			}
			if !strings.Contains(msg, tt.wantDetail) {
				t.Errorf("Message() = %q, want detail %q", msg, tt.wantDetail)
			}
			if analyzer.calls != 1 {
				t.Errorf("analyzer called %d times, want exactly 1", analyzer.calls)
			}
			if files := htmlFiles(t, dir); len(files) != 0 {
				t.Errorf("files = %v, want none", files)
			}
			if len(opener.urls) != 0 {
				t.Errorf("browser opened %v, want nothing", opener.urls)
			}
		})
	}
}

func TestPipeline_Run_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	analyzer := &fakeAnalyzer{res: inference.Result{
		Text:  "# Title\n\nSome **bold** text",
		Model: "fake-model",
		Usage: inference.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}}
	opener := &fakeOpener{}

	out := NewPipeline(
		WithSource(&fakeSource{img: screenshot()}),
		WithAnalyzer(analyzer),
		WithRenderer(newRenderer(t)),
		WithOpener(opener),
		WithWorkspace(dir),
		WithNow(fixedNow),
	).Run(context.Background())

	if out.State != StatePresented {
		t.Fatalf("State = %s, want %s (err: %v)", out.State, StatePresented, out.Err)
	}
	if out.Err != nil || out.Warning != nil {
		t.Errorf("Err = %v, Warning = %v, want none", out.Err, out.Warning)
	}
	if analyzer.got != inference.Instruction {
		t.Errorf("instruction = %q, want default instruction", analyzer.got)
	}

	wantPath := filepath.Join(dir, "analysis_20240102_030405.html")
	if out.Path != wantPath {
		t.Errorf("Path = %q, want %q", out.Path, wantPath)
	}
	if out.Message() != "Created new file: "+wantPath {
		t.Errorf("Message() = %q", out.Message())
	}
	if out.Title != "Title" {
		t.Errorf("Title = %q, want %q", out.Title, "Title")
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	html := string(data)
	for _, want := range []string{"<!DOCTYPE html>", "<style>", "<h1", "Title", "<strong>", "bold"} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}

	if len(opener.urls) != 1 {
		t.Fatalf("browser opened %d times, want exactly 1", len(opener.urls))
	}
	if opener.urls[0] != browser.FileURL(wantPath) {
		t.Errorf("opened %q, want %q", opener.urls[0], browser.FileURL(wantPath))
	}
}

func TestPipeline_Run_TwoRunsLeaveOneDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	tick := fixedNow()
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	run := func() Outcome {
		return NewPipeline(
			WithSource(&fakeSource{img: screenshot()}),
			WithAnalyzer(&fakeAnalyzer{res: inference.Result{Text: "# Run"}}),
			WithRenderer(newRenderer(t)),
			WithWorkspace(dir),
			WithNow(clock),
		).Run(context.Background())
	}

	first := run()
	second := run()

	if first.State != StatePresented || second.State != StatePresented {
		t.Fatalf("states = %s, %s", first.State, second.State)
	}
	if len(second.Cleanup.Removed) != 1 || second.Cleanup.Removed[0] != first.Path {
		t.Errorf("second run removed %v, want [%s]", second.Cleanup.Removed, first.Path)
	}

	files := htmlFiles(t, dir)
	if len(files) != 1 || files[0] != second.Path {
		t.Errorf("files = %v, want only %s", files, second.Path)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("non-document file removed: %v", err)
	}
}

func TestPipeline_Run_SameSecond(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Cleanup skips directories, so this name stays taken during the run.
	if err := os.Mkdir(filepath.Join(dir, "analysis_20240102_030405.html"), 0o750); err != nil {
		t.Fatal(err)
	}

	out := NewPipeline(
		WithSource(&fakeSource{img: screenshot()}),
		WithAnalyzer(&fakeAnalyzer{res: inference.Result{Text: "text"}}),
		WithRenderer(newRenderer(t)),
		WithWorkspace(dir),
		WithNow(fixedNow),
	).Run(context.Background())

	if out.State != StatePresented {
		t.Fatalf("State = %s, want presented (err: %v)", out.State, out.Err)
	}
	if want := filepath.Join(dir, "analysis_20240102_030405_2.html"); out.Path != want {
		t.Errorf("Path = %q, want %q", out.Path, want)
	}
}

func TestPipeline_Run_BrowserFailureIsWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opener := &fakeOpener{err: fmt.Errorf("%w: xdg-open missing", browser.ErrLaunch)}

	out := NewPipeline(
		WithSource(&fakeSource{img: screenshot()}),
		WithAnalyzer(&fakeAnalyzer{res: inference.Result{Text: "# Ok"}}),
		WithRenderer(newRenderer(t)),
		WithOpener(opener),
		WithWorkspace(dir),
	).Run(context.Background())

	if out.State != StatePresented {
		t.Fatalf("State = %s, want presented", out.State)
	}
	if out.Err != nil {
		t.Errorf("Err = %v, want nil", out.Err)
	}
	if !errors.Is(out.Warning, ErrBrowserLaunch) {
		t.Errorf("Warning = %v, want ErrBrowserLaunch", out.Warning)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("document missing after browser failure: %v", err)
	}
	if len(opener.urls) != 1 {
		t.Errorf("browser opened %d times, want exactly 1", len(opener.urls))
	}
}

func TestPipeline_Run_NoOpener(t *testing.T) {
	t.Parallel()

	out := NewPipeline(
		WithSource(&fakeSource{img: screenshot()}),
		WithAnalyzer(&fakeAnalyzer{res: inference.Result{Text: "# Ok"}}),
		WithRenderer(newRenderer(t)),
		WithWorkspace(t.TempDir()),
	).Run(context.Background())

	if out.State != StatePresented || out.Warning != nil {
		t.Errorf("State = %s, Warning = %v", out.State, out.Warning)
	}
}

func TestPipeline_Run_WorkspaceFailure(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	source := &fakeSource{img: screenshot()}

	out := NewPipeline(
		WithSource(source),
		WithAnalyzer(&fakeAnalyzer{}),
		WithRenderer(newRenderer(t)),
		WithWorkspace(file),
	).Run(context.Background())

	if out.State != StateFailed {
		t.Fatalf("State = %s, want failed", out.State)
	}
	if !errors.Is(out.Err, ErrWorkspace) {
		t.Errorf("Err = %v, want ErrWorkspace", out.Err)
	}
	if source.calls != 0 {
		t.Errorf("clipboard read %d times, want 0", source.calls)
	}
	if out.Message() == "" {
		t.Error("Message() is empty for a failed run")
	}
}

func TestPipeline_Run_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewPipeline(
		WithSource(&fakeSource{err: context.Canceled}),
		WithAnalyzer(&fakeAnalyzer{}),
		WithRenderer(newRenderer(t)),
		WithWorkspace(t.TempDir()),
	).Run(ctx)

	if out.State != StateFailed || !errors.Is(out.Err, context.Canceled) {
		t.Errorf("State = %s, Err = %v; want failed with context.Canceled", out.State, out.Err)
	}
}

func TestPipeline_Run_MissingParts(t *testing.T) {
	t.Parallel()

	out := NewPipeline(WithWorkspace(t.TempDir())).Run(context.Background())
	if out.State != StateFailed {
		t.Errorf("State = %s, want failed", out.State)
	}
}

// ---------------------------------------------------------------------------
// TestState
// ---------------------------------------------------------------------------

func TestState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    State
		name     string
		terminal bool
	}{
		{StateInit, "init", false},
		{StateCleaned, "cleaned", false},
		{StateCaptured, "captured", false},
		{StateInferred, "inferred", false},
		{StateRendered, "rendered", false},
		{StatePresented, "presented", true},
		{StateNoImage, "no-image", true},
		{StateInferenceFailed, "inference-failed", true},
		{StateFailed, "failed", true},
		{State(42), "State(42)", false},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.state.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.name, got, tt.terminal)
		}
	}
}

func TestOutcome_Message_NonTerminal(t *testing.T) {
	t.Parallel()

	if got := (Outcome{State: StateRendered}).Message(); got != "" {
		t.Errorf("Message() = %q, want empty", got)
	}
}
