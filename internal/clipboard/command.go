package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// commandTimeout bounds a single clipboard tool invocation.
const commandTimeout = 5 * time.Second

// windowsScript writes the clipboard bitmap to stdout as PNG.
const windowsScript = `Add-Type -AssemblyName System.Windows.Forms; ` +
	`Add-Type -AssemblyName System.Drawing; ` +
	`$img = [System.Windows.Forms.Clipboard]::GetImage(); ` +
	`if ($img -ne $null) { ` +
	`$ms = New-Object System.IO.MemoryStream; ` +
	`$img.Save($ms, [System.Drawing.Imaging.ImageFormat]::Png); ` +
	`$out = [Console]::OpenStandardOutput(); ` +
	`$out.Write($ms.ToArray(), 0, $ms.Length); $out.Flush() }`

// Tool is a clipboard helper program that prints the clipboard image to stdout.
type Tool struct {
	Name string
	Args []string
}

// tools lists clipboard helpers per GOOS in preference order.
var tools = map[string][]Tool{
	"linux": {
		{Name: "wl-paste", Args: []string{"--no-newline", "--type", "image/png"}},
		{Name: "xclip", Args: []string{"-selection", "clipboard", "-target", "image/png", "-out"}},
	},
	"freebsd": {
		{Name: "xclip", Args: []string{"-selection", "clipboard", "-target", "image/png", "-out"}},
	},
	"darwin": {
		{Name: "pngpaste", Args: []string{"-"}},
	},
	"windows": {
		{Name: "powershell.exe", Args: []string{"-NoProfile", "-NonInteractive", "-STA", "-Command", windowsScript}},
	},
}

// ToolsFor returns the clipboard helpers tried on goos.
func ToolsFor(goos string) []Tool {
	return tools[goos]
}

// Runner abstracts process execution for testability.
type Runner interface {
	LookPath(name string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs real processes.
type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) { return exec.LookPath(name) }

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 -- name and args come from the fixed tools table
	return exec.CommandContext(ctx, name, args...).Output()
}

// CommandSource reads the clipboard by running platform helper tools.
type CommandSource struct {
	tools  []Tool
	runner Runner
}

// NewCommandSource creates a CommandSource for goos.
// A nil runner executes real processes.
func NewCommandSource(goos string, runner Runner) *CommandSource {
	if runner == nil {
		runner = execRunner{}
	}
	return &CommandSource{tools: ToolsFor(goos), runner: runner}
}

// ReadImage implements Source. The first installed tool that produces a
// decodable image wins. When tools are installed but none yields an image,
// the clipboard is considered empty.
func (s *CommandSource) ReadImage(ctx context.Context) (*Image, error) {
	var (
		ran  bool
		errs []error
	)

	for _, tool := range s.tools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, err := s.runner.LookPath(tool.Name)
		if err != nil {
			continue
		}

		img, err := s.run(ctx, path, tool)
		if err == nil {
			return img, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// A tool that exits non-zero usually means "no image target".
		ran = true
		errs = append(errs, err)
	}

	if !ran {
		return nil, fmt.Errorf("%w: no clipboard tool found", ErrUnavailable)
	}
	return nil, fmt.Errorf("%w: %v", ErrNoImage, errors.Join(errs...))
}

func (s *CommandSource) run(ctx context.Context, path string, tool Tool) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := s.runner.Output(ctx, path, tool.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", tool.Name, err)
	}
	img, err := Decode(out, tool.Name)
	if err != nil {
		return nil, err
	}
	return img, nil
}
