package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLConverter turns rendered Markdown into standalone, sanitized HTML pages.
type HTMLConverter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLConverter creates a converter with GitHub-flavored tables and the
// user-generated-content sanitizing policy.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Convert renders markdown into a complete HTML document titled title.
// Raw HTML in the source is escaped by goldmark and anything that slips
// through is stripped by the sanitizer.
func (c *HTMLConverter) Convert(title string, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(c.policy.SanitizeBytes(body.Bytes()))
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// htmlName maps a Markdown document name to its HTML companion.
func htmlName(document string) string {
	return document[:len(document)-len(MarkdownExt)] + HTMLExt
}
