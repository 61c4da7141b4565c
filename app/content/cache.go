package content

import (
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"
)

// Cache keeps the post listing in memory so list endpoints do not re-scan the
// content directory. Single posts are still rendered on demand from their file.
type Cache struct {
	store    *Store
	posts    []Post
	loadedAt time.Time
	mu       sync.RWMutex
}

func NewCache(store *Store) *Cache {
	return &Cache{store: store}
}

// Run (re)loads the listing. On failure the previous listing is kept.
func (c *Cache) Run() error {
	posts, err := c.store.ListAll()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = posts
	c.loadedAt = time.Now()

	slog.Debug("Content index loaded", "posts", len(posts))

	return nil
}

func (c *Cache) ListAll() ([]Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	postsCopy := make([]Post, len(c.posts))
	copy(postsCopy, c.posts)
	return postsCopy, nil
}

func (c *Cache) GetBySlug(slug string) (*Post, error) {
	c.mu.RLock()
	var path string
	for _, post := range c.posts {
		if post.Slug == slug {
			path = post.SourcePath
			break
		}
	}
	c.mu.RUnlock()

	if path == "" {
		return nil, nil
	}

	post, err := c.store.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c.store.GetBySlug(slug)
	}
	if err != nil {
		return nil, err
	}

	// The file changed since indexing; fall back to a full scan.
	if post.Slug != slug {
		return c.store.GetBySlug(slug)
	}

	return post, nil
}

func (c *Cache) GetPostCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
