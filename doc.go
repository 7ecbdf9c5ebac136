// Package clip2html turns a screenshot on the clipboard into a styled HTML
// analysis opened in the browser.
//
// # Quick Start
//
// Build a pipeline from its parts and run it once:
//
//	analyzer, err := inference.NewBedrockFromEnv(ctx, inference.BedrockSettings{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	renderer, err := render.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := clip2html.NewPipeline(
//	    clip2html.WithSource(clipboard.Default(runtime.GOOS)),
//	    clip2html.WithAnalyzer(analyzer),
//	    clip2html.WithRenderer(renderer),
//	)
//	outcome := p.Run(ctx)
//	fmt.Println(outcome.Message())
//
// # Run Stages
//
// A run moves through these states and stops at the first terminal one:
//
//  1. StateCleaned: the workspace exists and old documents are gone
//  2. StateCaptured: an image was read from the clipboard (else StateNoImage)
//  3. StateInferred: the model returned markdown (else StateInferenceFailed)
//  4. StateRendered: the markdown became a complete HTML document
//  5. StatePresented: the document was written and handed to a browser
//
// Workspace and write failures end in StateFailed. Cleanup and browser
// failures are logged and never end a run.
//
// # Error Handling
//
// Outcome.Err wraps one of the sentinel errors (ErrNoImage, ErrTransport,
// ErrResponseShape, ErrWorkspace, ErrWriteDocument). Outcome.Warning wraps
// ErrBrowserLaunch when the document was written but could not be opened.
package clip2html
