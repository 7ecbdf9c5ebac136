// Package inference sends a captured image to a multimodal model and
// extracts the generated markdown.
//
// Analyzers never return partial text. A Result either carries non-empty
// text or an error wrapping one of:
//   - ErrEncode: the image could not be encoded as PNG,
//   - ErrTransport: the service could not be reached or rejected the call,
//   - ErrResponseShape: the call succeeded but the envelope did not hold
//     the expected text field.
package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// Sentinel errors for inference results.
var (
	ErrEncode        = errors.New("image encoding failed")
	ErrTransport     = errors.New("inference request failed")
	ErrResponseShape = errors.New("unexpected response shape")
)

// Instruction is the prompt sent alongside every image.
const Instruction = `Analyze this image and provide a detailed response in markdown format including:
1. Description of visual elements
2. Analysis of content
3. Key insights or findings

Use appropriate markdown formatting (headers, lists, code blocks, etc.)`

// Usage reports token consumption when the service provides it.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Result is the outcome of one analysis.
type Result struct {
	Text       string
	Model      string
	StopReason string
	Usage      Usage
	Err        error
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Err == nil && r.Text != ""
}

// Analyzer produces a markdown analysis for an image.
type Analyzer interface {
	Analyze(ctx context.Context, img image.Image, instruction string) Result
}

// EncodePNG encodes img as a PNG byte stream, the only input format both
// providers accept for this request.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrEncode)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// failure builds a Result carrying only an error.
func failure(model string, err error) Result {
	return Result{Model: model, Err: err}
}

// transportFailure wraps a service or network error. The cause stays in
// the chain so callers can inspect provider error codes.
func transportFailure(model string, err error) Result {
	return failure(model, fmt.Errorf("%w: %w", ErrTransport, err))
}

// shapeFailure reports the first envelope field that was missing.
func shapeFailure(model, field string) Result {
	return failure(model, fmt.Errorf("%w: missing %s", ErrResponseShape, field))
}
