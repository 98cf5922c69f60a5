package format

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	richOnce   sync.Once
	richMD     goldmark.Markdown
	richPolicy *bluemonday.Policy
)

func richInit() {
	richMD = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		// raw HTML is passed through to the sanitizer below
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	richPolicy = bluemonday.UGCPolicy()
	richPolicy.RequireNoFollowOnLinks(true)
	richPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

// RichText renders a translated string as sanitized HTML. Translations may use
// markdown (or inline HTML, which the sanitizer filters). On a conversion error
// the plain escaped text is returned.
func RichText(src string) template.HTML {
	richOnce.Do(richInit)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := richMD.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(richPolicy.SanitizeBytes(buf.Bytes()))
}
