package clip2html

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-clip2html/internal/browser"
	"github.com/alnah/go-clip2html/internal/render"
	"github.com/alnah/go-clip2html/internal/workspace"
)

// Opener opens a URL in a browser.
type Opener interface {
	Open(rawURL string) (browser.Attempt, error)
}

// Presenter writes documents into the workspace and opens them.
type Presenter struct {
	dir    string
	opener Opener // nil = write only
	logger *slog.Logger
}

// NewPresenter creates a Presenter writing into dir. A nil opener disables
// the browser step.
func NewPresenter(dir string, opener Opener, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = discardLogger()
	}
	return &Presenter{dir: dir, opener: opener, logger: logger}
}

// Present writes doc to a new file named after capturedAt and opens it.
// It returns the file path. A write failure wraps ErrWriteDocument and no
// path is returned; a browser failure wraps ErrBrowserLaunch and the path
// is still valid.
func (p *Presenter) Present(ctx context.Context, doc render.Document, capturedAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := p.write(doc, capturedAt)
	if err != nil {
		return "", err
	}

	if p.opener == nil {
		return path, nil
	}

	attempt, err := p.opener.Open(browser.FileURL(path))
	if err != nil {
		return path, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	if attempt.Fallback() {
		p.logger.Debug("preferred browser unavailable, used default", "reason", attempt.PreferredErr)
	}
	p.logger.Debug("opened document", "browser", attempt.Strategy, "path", path)

	return path, nil
}

// write creates the document file exclusively and removes it again if the
// content could not be written in full.
func (p *Presenter) write(doc render.Document, capturedAt time.Time) (string, error) {
	f, err := workspace.Create(p.dir, capturedAt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	path := f.Name()

	_, werr := f.WriteString(doc.HTML)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %s: %v", ErrWriteDocument, path, werr)
	}

	return path, nil
}

// Compile-time interface checks.
var _ Opener = (*browser.Launcher)(nil)
