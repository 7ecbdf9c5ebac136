package main

import (
	"errors"
	"os"

	clip2html "github.com/alnah/go-clip2html"
	"github.com/alnah/go-clip2html/internal/config"
)

// Exit codes for clip2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Document created
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags or config
	ExitNoImage   = 3 // Clipboard holds no image
	ExitInference = 4 // Model request or response failure
	ExitIO        = 5 // Workspace or document write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, clip2html.ErrNoImage) {
		return ExitNoImage
	}

	if errors.Is(err, clip2html.ErrTransport) ||
		errors.Is(err, clip2html.ErrResponseShape) ||
		errors.Is(err, clip2html.ErrEncode) {
		return ExitInference
	}

	if errors.Is(err, clip2html.ErrWorkspace) ||
		errors.Is(err, clip2html.ErrWriteDocument) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidProvider) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}
