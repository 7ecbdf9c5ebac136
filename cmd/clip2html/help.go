package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clip2html [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Analyze the screenshot on the clipboard and open the result in a browser.")
	fmt.Fprintln(w, "Copy an image first, then run clip2html with no arguments.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>   Config name in ~/.config/go-clip2html, or a file path")
	fmt.Fprintln(w, "                        (default ~/.config/go-clip2html/config.yaml)")
	fmt.Fprintln(w, "      --no-open         Write the document without opening a browser")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show diagnostics (token usage, browser choice)")
	fmt.Fprintln(w, "      --version         Print version and exit")
	fmt.Fprintln(w, "  -h, --help            Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CLIP2HTML_CONFIG      Config file path")
	fmt.Fprintln(w, "  CLIP2HTML_PROVIDER    bedrock (default) or ollama")
	fmt.Fprintln(w, "  CLIP2HTML_MODEL       Model id (default amazon.nova-lite-v1:0 / llava)")
	fmt.Fprintln(w, "  CLIP2HTML_REGION      AWS region")
	fmt.Fprintln(w, "  CLIP2HTML_WORKSPACE   Output directory (default ~/screenshot_analysis)")
	fmt.Fprintln(w, "  CLIP2HTML_OLLAMA_URL  Ollama server (default http://localhost:11434)")
	fmt.Fprintln(w, "  CLIP2HTML_TIMEOUT     Request timeout, e.g. 2m")
	fmt.Fprintln(w, "  CLIP2HTML_BROWSER     Browser executable or .app bundle")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "AWS credentials come from the standard provider chain.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 document created, 1 general error, 2 usage or config error,")
	fmt.Fprintln(w, "  3 no image on clipboard, 4 model request failed, 5 file system error")
}
