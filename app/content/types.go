package content

import (
	"time"
)

type Category string

const (
	CategorySovereignRCM       Category = "sovereign-rcm"
	CategoryAIInsights         Category = "ai-insights"
	CategoryPracticeManagement Category = "practice-management"
	CategoryCompanyNews        Category = "company-news"
)

var categoryLabels = map[Category]string{
	CategorySovereignRCM:       "Sovereign RCM",
	CategoryAIInsights:         "AI Insights",
	CategoryPracticeManagement: "Practice Management",
	CategoryCompanyNews:        "Company News",
}

// Categories returns the closed set of blog categories in display order.
func Categories() []Category {
	return []Category{
		CategorySovereignRCM,
		CategoryAIInsights,
		CategoryPracticeManagement,
		CategoryCompanyNews,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Category    Category  `json:"category"`
	Keywords    []string  `json:"keywords"`
	Featured    bool      `json:"featured"`
	ReadingTime int       `json:"readingTime"` // minutes

	// Only populated when a single post is fetched
	Content  string    `json:"content,omitempty"`
	Headings []Heading `json:"headings,omitempty"`

	SourcePath string `json:"-"`
}

type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type CategoryCount struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
	Count int      `json:"count"`
}

type Page struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
}
