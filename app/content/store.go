package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

var markdownExtensions = []string{"*.md", "*.markdown"}

// Store reads blog posts from a directory of markdown files. The directory is the
// source of truth; every call re-reads it.
type Store struct {
	contentDir string
	renderer   *Renderer
}

func NewStore(contentDir string, renderer *Renderer) *Store {
	return &Store{
		contentDir: contentDir,
		renderer:   renderer,
	}
}

// ListAll returns metadata for every post without rendering bodies.
// A missing directory yields an empty list.
func (s *Store) ListAll() ([]Post, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(files))
	for _, file := range files {
		post, _, err := s.loadFile(file)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	slog.Debug("Content directory scanned", "dir", s.contentDir, "posts", len(posts))

	return posts, nil
}

// GetBySlug returns the first post whose front-matter slug matches, with rendered content.
// It returns nil, nil when no post matches.
func (s *Store) GetBySlug(slug string) (*Post, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		post, body, err := s.loadFile(file)
		if err != nil {
			return nil, err
		}
		if post.Slug != slug {
			continue
		}
		if err := s.render(post, body); err != nil {
			return nil, fmt.Errorf("error rendering %s: %w", file, err)
		}
		return post, nil
	}

	return nil, nil
}

// Load reads a single file and renders its content.
func (s *Store) Load(path string) (*Post, error) {
	post, body, err := s.loadFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.render(post, body); err != nil {
		return nil, fmt.Errorf("error rendering %s: %w", path, err)
	}
	return post, nil
}

func (s *Store) ContentDir() string {
	return s.contentDir
}

func (s *Store) files() ([]string, error) {
	if _, err := os.Stat(s.contentDir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	for _, pattern := range markdownExtensions {
		matches, err := filepath.Glob(filepath.Join(s.contentDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to find markdown files: %w", err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	return files, nil
}

func (s *Store) loadFile(path string) (*Post, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading %s: failed to read file: %w", path, err)
	}

	post, body, err := parsePost(data)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	post.SourcePath = path

	return post, body, nil
}

func (s *Store) render(post *Post, body []byte) error {
	html, headings, err := s.renderer.Run(body)
	if err != nil {
		return err
	}
	post.Content = html
	post.Headings = headings
	return nil
}
