package inference

import (
	"context"
	"errors"
	"image"
	"sync"
)

// Factory builds an Analyzer.
type Factory func(ctx context.Context) (Analyzer, error)

// LazyAnalyzer builds its client on the first Analyze call. A run that
// stops before inference never loads provider configuration.
type LazyAnalyzer struct {
	build Factory

	once     sync.Once
	analyzer Analyzer
	err      error
}

// NewLazyAnalyzer wraps build. It is called at most once.
func NewLazyAnalyzer(build Factory) *LazyAnalyzer {
	return &LazyAnalyzer{build: build}
}

// Analyze builds the client if needed and delegates to it. A setup error
// is returned as a transport failure.
func (l *LazyAnalyzer) Analyze(ctx context.Context, img image.Image, instruction string) Result {
	l.once.Do(func() {
		l.analyzer, l.err = l.build(ctx)
		if l.err == nil && l.analyzer == nil {
			l.err = errors.New("no analyzer configured")
		}
	})
	if l.err != nil {
		if errors.Is(l.err, ErrTransport) {
			return failure("", l.err)
		}
		return transportFailure("", l.err)
	}
	return l.analyzer.Analyze(ctx, img, instruction)
}

var _ Analyzer = (*LazyAnalyzer)(nil)
