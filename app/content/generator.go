package content

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

// StaticPages are the marketing pages listed in the sitemap ahead of blog posts.
var StaticPages = []string{"/", "/about", "/pricing", "/faq", "/roi-calculator", "/contact", "/blog"}

type SiteInfo struct {
	Title       string
	Description string
	BaseURL     string
	Version     string
}

func (s SiteInfo) PostURL(slug string) string {
	return s.baseURL() + "/blog/" + slug
}

func (s SiteInfo) baseURL() string {
	return strings.TrimRight(cmp.Or(s.BaseURL, "http://localhost:8080"), "/")
}

type Generator struct {
	site SiteInfo
}

func NewGenerator(site SiteInfo) *Generator {
	return &Generator{site: site}
}

// Run renders posts as an RSS 2.0 document. Posts are expected newest first.
func (g *Generator) Run(posts []Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", g.site.Title, 4)
	g.writeElement(&buf, "link", g.site.baseURL()+"/blog", 4)
	g.writeElement(&buf, "description", cmp.Or(g.site.Description, g.site.Title), 4)

	selfLink := g.site.baseURL() + "/feed.xml"
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 {
		lastBuildDate = posts[0].Date
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("RCM-Site/%s", cmp.Or(g.site.Version, "dev")), 4)
	g.writeElement(&buf, "language", "en-us", 4)

	for _, post := range posts {
		g.writeItem(&buf, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, post Post) {
	link := g.site.PostURL(post.Slug)

	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"true\">")
	xml.EscapeText(buf, []byte(link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", post.Title, 6)
	g.writeElement(buf, "link", link, 6)
	g.writeElement(buf, "description", cmp.Or(post.Excerpt, post.Title), 6)
	g.writeElement(buf, "pubDate", post.Date.Format(time.RFC1123Z), 6)
	// RSS <author> must be an email address; dc:creator carries a display name.
	g.writeElement(buf, "dc:creator", post.Author, 6)
	g.writeElement(buf, "category", post.Category.Label(), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap renders the static pages followed by one entry per post.
func (g *Generator) Sitemap(posts []Post) (string, error) {
	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, path := range StaticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: g.site.baseURL() + path})
	}

	for _, post := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     g.site.PostURL(post.Slug),
			LastMod: post.Date.Format("2006-01-02"),
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sitemap: %w", err)
	}

	return xml.Header + string(data), nil
}
