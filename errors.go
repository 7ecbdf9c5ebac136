package clip2html

import (
	"errors"

	"github.com/alnah/go-clip2html/internal/clipboard"
	"github.com/alnah/go-clip2html/internal/inference"
	"github.com/alnah/go-clip2html/internal/render"
	"github.com/alnah/go-clip2html/internal/workspace"
)

// Sentinel errors for a run. Callers test them with errors.Is.
var (
	// ErrNoImage means the clipboard held no image. It is a normal outcome.
	ErrNoImage = clipboard.ErrNoImage

	// Inference failures.
	ErrEncode        = inference.ErrEncode
	ErrTransport     = inference.ErrTransport
	ErrResponseShape = inference.ErrResponseShape

	// ErrRender is reported only as a warning: rendering falls back to raw text.
	ErrRender = render.ErrConversion

	// Presentation failures. Workspace and write failures end the run;
	// a browser failure leaves the document on disk.
	ErrWorkspace     = workspace.ErrWorkspace
	ErrWriteDocument = errors.New("failed to write document")
	ErrBrowserLaunch = errors.New("failed to open browser")
)
