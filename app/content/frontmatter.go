package content

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const wordsPerMinute = 265

var (
	ErrMissingFrontMatter      = errors.New("missing opening --- delimiter")
	ErrUnterminatedFrontMatter = errors.New("missing closing --- delimiter")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

type frontMatter struct {
	Slug     string   `yaml:"slug"`
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Author   string   `yaml:"author"`
	Category string   `yaml:"category"`
	Excerpt  string   `yaml:"excerpt"`
	Keywords []string `yaml:"keywords"`
	Featured bool     `yaml:"featured"`
}

// splitFrontMatter separates the YAML block between the leading --- lines from the markdown body.
func splitFrontMatter(data []byte) ([]byte, []byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, nil, ErrMissingFrontMatter
	}

	rest := data[len(delim):]
	var fm, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---")):
		fm, body = nil, rest[3:]
	default:
		idx := bytes.Index(rest, []byte("\n---"))
		if idx < 0 {
			return nil, nil, ErrUnterminatedFrontMatter
		}
		fm, body = rest[:idx], rest[idx+4:]
	}

	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}

	return fm, body, nil
}

// parsePost decodes and validates the front-matter of a markdown document.
func parsePost(data []byte) (*Post, []byte, error) {
	raw, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, nil, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return nil, nil, fmt.Errorf("failed to parse front-matter: %w", err)
	}

	post, err := fm.toPost()
	if err != nil {
		return nil, nil, err
	}

	post.ReadingTime = readingTime(body)

	return post, body, nil
}

func (fm frontMatter) toPost() (*Post, error) {
	requiredFields := []struct {
		name  string
		value string
	}{
		{"slug", fm.Slug},
		{"title", fm.Title},
		{"date", fm.Date},
		{"category", fm.Category},
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%s is required", field.name)
		}
	}

	if !slugPattern.MatchString(fm.Slug) {
		return nil, fmt.Errorf("invalid slug %q: use lowercase letters, digits and hyphens", fm.Slug)
	}

	category := Category(strings.TrimSpace(fm.Category))
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category %q", fm.Category)
	}

	date, err := parseDate(fm.Date)
	if err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(fm.Keywords))
	for _, keyword := range fm.Keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}

	return &Post{
		Slug:     fm.Slug,
		Title:    strings.TrimSpace(fm.Title),
		Excerpt:  strings.TrimSpace(fm.Excerpt),
		Author:   strings.TrimSpace(fm.Author),
		Date:     date,
		Category: category,
		Keywords: keywords,
		Featured: fm.Featured,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
}

// readingTime estimates minutes to read body at 265 words per minute, never less than one.
func readingTime(body []byte) int {
	words := len(strings.Fields(string(body)))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	return max(minutes, 1)
}
