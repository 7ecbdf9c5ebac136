package clipboard

import (
	"context"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// SystemSource reads the clipboard through the native platform API.
// On builds without cgo, or without a display, initialization fails and
// the source reports ErrUnavailable.
type SystemSource struct {
	once    sync.Once
	initErr error

	// Overridable in tests.
	initFn func() error
	readFn func() []byte
}

// NewSystemSource creates a SystemSource backed by golang.design/x/clipboard.
func NewSystemSource() *SystemSource {
	return &SystemSource{
		initFn: clipboard.Init,
		readFn: func() []byte { return clipboard.Read(clipboard.FmtImage) },
	}
}

// ReadImage implements Source.
func (s *SystemSource) ReadImage(ctx context.Context) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.once.Do(func() { s.initErr = s.initFn() })
	if s.initErr != nil {
		return nil, fmt.Errorf("%w: native clipboard: %v", ErrUnavailable, s.initErr)
	}

	return Decode(s.readFn(), "system")
}
