package content

import (
	"slices"
)

const DefaultPerPage = 9

// SortByDateDescending returns a new slice ordered newest first. Posts sharing a
// date keep their input order.
func SortByDateDescending(posts []Post) []Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b Post) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

func ByCategory(posts []Post, category Category) []Post {
	filtered := make([]Post, 0, len(posts))
	for _, post := range posts {
		if post.Category == category {
			filtered = append(filtered, post)
		}
	}
	return filtered
}

func Featured(posts []Post) []Post {
	featured := make([]Post, 0)
	for _, post := range SortByDateDescending(posts) {
		if post.Featured {
			featured = append(featured, post)
		}
	}
	return featured
}

func Recent(posts []Post, n int) []Post {
	if n <= 0 {
		return []Post{}
	}
	sorted := SortByDateDescending(posts)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Related picks up to n posts from the same category (excluding currentSlug),
// newest first, then fills remaining slots with the newest posts from other categories.
func Related(posts []Post, currentSlug string, category Category, n int) []Post {
	if n <= 0 {
		return []Post{}
	}

	sorted := SortByDateDescending(posts)
	selected := make([]Post, 0, n)
	seen := map[string]bool{currentSlug: true}

	pick := func(match func(Post) bool) {
		for _, post := range sorted {
			if len(selected) == n {
				return
			}
			if seen[post.Slug] || !match(post) {
				continue
			}
			seen[post.Slug] = true
			selected = append(selected, post)
		}
	}

	pick(func(p Post) bool { return p.Category == category })
	pick(func(p Post) bool { return p.Category != category })

	return selected
}

// Paginate returns the 1-based page of posts in their given order.
func Paginate(posts []Post, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	total := len(posts)
	totalPages := (total + perPage - 1) / perPage

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	pagePosts := make([]Post, 0, end-start)
	pagePosts = append(pagePosts, posts[start:end]...)

	return Page{
		Posts:      pagePosts,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func CategoryCounts(posts []Post) []CategoryCount {
	counts := make(map[Category]int)
	for _, post := range posts {
		counts[post.Category]++
	}

	result := make([]CategoryCount, 0, len(categoryLabels))
	for _, category := range Categories() {
		result = append(result, CategoryCount{
			Key:   category,
			Label: category.Label(),
			Count: counts[category],
		})
	}
	return result
}
