// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"os"
	"strings"
	"syscall"

	"github.com/aws/smithy-go"

	"github.com/alnah/go-clip2html/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// clipboardTools lists the helper programs worth installing per GOOS.
var clipboardTools = map[string]string{
	"linux":   "install wl-clipboard (Wayland) or xclip (X11)",
	"freebsd": "install xclip",
	"darwin":  "install pngpaste (brew install pngpaste)",
}

// ForNoImage returns hints for an empty or unreadable clipboard.
// unavailable is true when no clipboard backend could be used at all.
func ForNoImage(goos string, unavailable bool) string {
	if !unavailable {
		return ""
	}
	return format(clipboardTools[goos])
}

// apiCodeHints maps Bedrock error codes to the usual fix.
var apiCodeHints = map[string]string{
	"AccessDeniedException":               "request model access in the Bedrock console for this region",
	"UnrecognizedClientException":         "check AWS credentials (aws configure, AWS_PROFILE)",
	"ExpiredTokenException":               "refresh AWS credentials (aws sso login)",
	"ThrottlingException":                 "wait a moment and run again",
	"ServiceQuotaExceededException":       "wait a moment and run again",
	"ResourceNotFoundException":           "check the model id and region in the config file",
	"ValidationException":                 "check the model id supports image input",
	"ModelNotReadyException":              "the model is starting; run again shortly",
	"ModelTimeoutException":               "raise timeout in the config file",
	"ServiceUnavailableException":         "the service is unavailable; run again later",
	"InternalServerException":             "the service failed; run again later",
	"ModelErrorException":                 "the model failed on this image; try a smaller screenshot",
	"ModelStreamErrorException":           "the model failed on this image; try a smaller screenshot",
	"InvalidSignatureException":           "check the system clock and AWS credentials",
	"IncompleteSignatureException":        "check AWS credentials",
	"MissingAuthenticationTokenException": "check AWS credentials",
}

// ForTransport returns hints for inference transport failures.
func ForTransport(err error) string {
	if err == nil {
		return ""
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return format(apiCodeHints[apiErr.ErrorCode()])
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return format("start the local model server (ollama serve)")
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "failed to retrieve credentials"),
		strings.Contains(msg, "no EC2 IMDS role found"):
		return format("configure AWS credentials (aws configure, AWS_PROFILE)")
	case strings.Contains(msg, "Invalid region") || strings.Contains(msg, "resolve endpoint"):
		return format("set region in the config file or CLIP2HTML_REGION")
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "Timeout"):
		return ForTimeout()
	}
	return ""
}

// ForTimeout returns a hint about increasing timeout for slow models.
func ForTimeout() string {
	return format("for large screenshots, raise timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(path string) string {
	hint := "use --config /path/to/file.yaml"
	if path != "" {
		hint += " or create " + path
	}
	return format(hint)
}

// ForWorkspace returns hints for workspace creation and write errors.
func ForWorkspace() string {
	return format("check the home directory is writable or set workspace in the config file")
}

// ForBrowser returns hints for browser launch failures.
func ForBrowser() string {
	var hints []string

	inCI := os.Getenv("CI") != "" || os.Getenv("SSH_CONNECTION") != ""
	if inCI || IsInContainer() {
		hints = append(hints, "use --no-open on headless machines")
	}
	hints = append(hints, "set browser.path in the config file")

	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
