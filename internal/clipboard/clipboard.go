// Package clipboard reads an image from the operating system clipboard.
//
// An empty clipboard, or one holding something other than an image, is a
// normal outcome reported as ErrNoImage. ErrUnavailable means no clipboard
// backend could be reached at all.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // Windows DIB payloads
	_ "golang.org/x/image/tiff" // macOS screenshots copied from Preview
	_ "golang.org/x/image/webp" // browser "copy image"
)

// Sentinel errors for clipboard reads.
var (
	ErrNoImage     = errors.New("no image in clipboard")
	ErrUnavailable = errors.New("clipboard unavailable")
)

// Image is a decoded clipboard bitmap.
type Image struct {
	Image  image.Image
	Format string // decoder name: "png", "jpeg", "bmp", ...
	Origin string // backend that produced it
}

// Source yields the current clipboard image.
type Source interface {
	ReadImage(ctx context.Context) (*Image, error)
}

// Decode decodes raw clipboard bytes. Bytes that are not a supported image
// format are reported as ErrNoImage, not as a decoding failure.
func Decode(data []byte, origin string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload not decodable: %v", ErrNoImage, origin, err)
	}

	return &Image{Image: img, Format: format, Origin: origin}, nil
}

// Chain tries each source in order and returns the first image found.
// Sources reporting absence or unavailability are skipped; any other error
// stops the chain. When no source yields an image the result wraps
// ErrNoImage if at least one source was reachable, ErrUnavailable otherwise.
type Chain []Source

// ReadImage implements Source.
func (c Chain) ReadImage(ctx context.Context) (*Image, error) {
	var errs []error
	reachable := false

	for _, src := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := src.ReadImage(ctx)
		switch {
		case err == nil:
			return img, nil
		case errors.Is(err, ErrNoImage):
			reachable = true
		case !errors.Is(err, ErrUnavailable):
			return nil, err
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, ErrUnavailable
	}
	if reachable {
		return nil, fmt.Errorf("%w: %w", ErrNoImage, errors.Join(errs...))
	}
	return nil, errors.Join(errs...)
}

// Default returns the native clipboard backed by command-line tools.
func Default(goos string) Source {
	return Chain{
		NewSystemSource(),
		NewCommandSource(goos, nil),
	}
}

// Compile-time interface checks.
var (
	_ Source = Chain(nil)
	_ Source = (*SystemSource)(nil)
	_ Source = (*CommandSource)(nil)
)
