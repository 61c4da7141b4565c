package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func NewRenderer() *Renderer {
	markdown := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Raw HTML is allowed through goldmark and stripped by the sanitizer below.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.RequireNoFollowOnLinks(false)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{
		markdown: markdown,
		policy:   policy,
	}
}

// Run converts a markdown body into sanitized HTML and its h2/h3 outline.
func (r *Renderer) Run(body []byte) (string, []Heading, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert(body, &buf); err != nil {
		return "", nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	sanitized := r.policy.SanitizeBytes(buf.Bytes())

	headings, err := r.extractHeadings(sanitized)
	if err != nil {
		return "", nil, err
	}

	return string(sanitized), headings, nil
}

func (r *Renderer) extractHeadings(htmlData []byte) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	var headings []Heading
	doc.Find("h2, h3").Each(func(i int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			return
		}

		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}

		headings = append(headings, Heading{
			ID:    id,
			Text:  strings.TrimSpace(s.Text()),
			Level: level,
		})
	})

	return headings, nil
}
