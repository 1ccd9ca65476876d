package content

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// pageTemplate wraps converted Markdown in a minimal standalone document,
// so synced pages are self-contained files a plain static server can serve.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.6; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #24292f; }
    pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
    code { font-family: ui-monospace, "SF Mono", Menlo, monospace; font-size: 0.9em; }
    a { color: #0969da; }
    img { max-width: 100%; }
  </style>
</head>
<body>
<article class="page-content">
{{.Content}}
</article>
</body>
</html>`

// errorTemplate is the inline panel shown in place of a page that could
// not be loaded. It is a fragment, not a document, so callers can embed
// it directly in their own content pane.
const errorTemplate = `<div class="load-error" style="font-family: sans-serif; color: #b42318; padding: 2rem;">
<h2>{{.Title}}</h2>
<p>Failed to load page: {{.Detail}}</p>
</div>`

var (
	pageTmpl  = template.Must(template.New("page").Parse(pageTemplate))
	errorTmpl = template.Must(template.New("error").Parse(errorTemplate))
)

type pageData struct {
	Title   string
	Content template.HTML
}

type errorData struct {
	Title  string
	Detail string
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// IsMarkdownURI reports whether uri points at a Markdown source, judged by
// the path extension with any query or fragment stripped.
func IsMarkdownURI(uri string) bool {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// RenderMarkdown converts Markdown source into a standalone HTML document
// titled title.
func RenderMarkdown(src []byte, title string) (string, error) {
	var body bytes.Buffer
	if err := newMarkdown().Convert(src, &body); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	var out bytes.Buffer
	err := pageTmpl.Execute(&out, pageData{
		Title:   title,
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return out.String(), nil
}

// Prepare turns a fetched body into displayable HTML: Markdown sources are
// rendered, anything else passes through byte-for-byte.
func Prepare(uri, body, title string) (string, error) {
	if IsMarkdownURI(uri) {
		return RenderMarkdown([]byte(body), title)
	}
	return body, nil
}

// ErrorPage builds the inline error document displayed when a page load
// fails.
func ErrorPage(title string, loadErr error) string {
	var out bytes.Buffer
	err := errorTmpl.Execute(&out, errorData{
		Title:  title,
		Detail: loadErr.Error(),
	})
	if err != nil {
		return "Failed to load page: " + loadErr.Error()
	}
	return out.String()
}
