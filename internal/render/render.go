// Package render turns model-generated markdown into a standalone, styled
// HTML document.
//
// Rendering never fails: the markdown comes from a remote model and may be
// malformed, so any conversion error falls back to the escaped raw text.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-clip2html/internal/assets"
)

// ErrConversion indicates goldmark could not convert the markdown.
var ErrConversion = errors.New("markdown conversion failed")

// DefaultTitle is used when the markdown has no level-1 heading.
const DefaultTitle = "Screenshot Analysis"

// highlightStyle is the chroma style used for fenced code blocks.
const highlightStyle = "github"

// fallbackTemplate is used only if the embedded document template cannot
// be executed. Arguments: title, CSS, body.
const fallbackTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
<div class="content">
%s
</div>
</body>
</html>`

// Document is a rendered analysis.
type Document struct {
	HTML  string
	Title string

	// Err is set when the markdown could not be converted and the body
	// holds the escaped raw text instead.
	Err error
}

// Renderer converts markdown to styled HTML documents.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
	css  string
}

// documentData feeds the document template.
type documentData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// New creates a Renderer with GFM extensions, heading anchors, hard line
// breaks and class-based syntax highlighting.
func New() (*Renderer, error) {
	return newWithMarkdown(defaultMarkdown())
}

// defaultMarkdown returns the goldmark instance used for model output.
func defaultMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			// WithUnsafe is not set: raw HTML from the model is dropped.
		),
	)
}

// newWithMarkdown creates a Renderer around md.
func newWithMarkdown(md goldmark.Markdown) (*Renderer, error) {
	tmpl, err := template.New("document").Parse(assets.DocumentTemplate())
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}

	css, err := Stylesheet()
	if err != nil {
		return nil, err
	}

	return &Renderer{md: md, tmpl: tmpl, css: css}, nil
}

// Stylesheet returns the fixed report stylesheet followed by the syntax
// highlighting classes.
func Stylesheet() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(assets.DefaultStyle())
	buf.WriteString("\n/* syntax highlighting */\n")

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("generating highlight CSS: %w", err)
	}

	return sanitizeCSS(buf.String()), nil
}

// Render converts markdown into a complete HTML document.
func (r *Renderer) Render(markdown string) Document {
	body, title, err := r.convert(markdown)
	if err != nil {
		body = `<pre class="fallback">` + html.EscapeString(markdown) + `</pre>`
		title = DefaultTitle
	}

	var buf bytes.Buffer
	data := documentData{
		Title: title,
		CSS:   template.CSS(r.css), // #nosec G203 -- static embedded stylesheet
		Body:  template.HTML(body), // #nosec G203 -- goldmark output with raw HTML disabled
	}
	if execErr := r.tmpl.Execute(&buf, data); execErr != nil {
		return Document{
			HTML:  fmt.Sprintf(fallbackTemplate, html.EscapeString(title), r.css, body),
			Title: title,
			Err:   errors.Join(err, execErr),
		}
	}

	return Document{HTML: buf.String(), Title: title, Err: err}
}

// convert renders the markdown fragment and extracts the document title.
// Panics inside goldmark or its extensions are turned into errors.
func (r *Renderer) convert(markdown string) (body, title string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrConversion, rec)
		}
	}()

	src := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrConversion, err)
	}

	return buf.String(), findTitle(doc, src), nil
}

// findTitle returns the text of the first level-1 heading, or DefaultTitle.
func findTitle(doc ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(plainText(h, src))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if title == "" {
		return DefaultTitle
	}
	return title
}

// plainText concatenates the literal text below n.
func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// sanitizeCSS escapes sequences that could close the <style> element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
