package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sovereignrcm/rcm-site/app/contact"
	"github.com/sovereignrcm/rcm-site/app/content"
	"github.com/sovereignrcm/rcm-site/app/tasks"
)

const (
	defaultRecentLimit  = 3
	defaultRelatedLimit = 3
	maxListLimit        = 50
)

func NewHandler(contentIndex ContentIndex, generator FeedGenerator, contactService ContactSubmitter,
	limiter LimiterStats, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		content:   contentIndex,
		generator: generator,
		contact:   contactService,
		limiter:   limiter,
		scheduler: scheduler,
		startedAt: time.Now(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	health["posts"] = h.content.GetPostCount()
	health["rate_limited_clients"] = h.limiter.Len()

	c.JSON(http.StatusOK, health)
}

// sortedPosts returns the cached listing newest first, writing a 500 on failure.
func (h *Handler) sortedPosts(c *gin.Context) ([]content.Post, bool) {
	posts, err := h.content.ListAll()
	if err != nil {
		slog.Error("Content error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return nil, false
	}
	return content.SortByDateDescending(posts), true
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, ok := h.sortedPosts(c)
	if !ok {
		return
	}

	if category := c.Query("category"); category != "" {
		cat := content.Category(category)
		if !cat.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		posts = content.ByCategory(posts, cat)
	}

	page := queryInt(c, "page", 1, 1, 0)
	perPage := queryInt(c, "per_page", content.DefaultPerPage, 1, maxListLimit)

	c.JSON(http.StatusOK, content.Paginate(posts, page, perPage))
}

func (h *Handler) ListRecentPosts(c *gin.Context) {
	posts, ok := h.sortedPosts(c)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", defaultRecentLimit, 0, maxListLimit)

	c.JSON(http.StatusOK, gin.H{"posts": content.Recent(posts, limit)})
}

func (h *Handler) ListFeaturedPosts(c *gin.Context) {
	posts, ok := h.sortedPosts(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": content.Featured(posts)})
}

func (h *Handler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.content.GetBySlug(slug)
	if err != nil {
		slog.Error("Content error", "operation", "get_post", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load post"})
		return
	}

	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	posts, err := h.content.ListAll()
	if err != nil {
		slog.Error("Content error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	limit := queryInt(c, "related", defaultRelatedLimit, 0, maxListLimit)

	c.JSON(http.StatusOK, gin.H{
		"post":    post,
		"related": content.Related(posts, post.Slug, post.Category, limit),
	})
}

func (h *Handler) ListCategories(c *gin.Context) {
	posts, err := h.content.ListAll()
	if err != nil {
		slog.Error("Content error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": content.CategoryCounts(posts)})
}

func (h *Handler) GetFeed(c *gin.Context) {
	posts, ok := h.sortedPosts(c)
	if !ok {
		return
	}

	rss, err := h.generator.Run(posts)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) GetSitemap(c *gin.Context) {
	posts, ok := h.sortedPosts(c)
	if !ok {
		return
	}

	sitemap, err := h.generator.Sitemap(posts)
	if err != nil {
		slog.Error("Sitemap generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap)
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.contact.Submit(c.Request.Context(), c.ClientIP(), sub); err != nil {
		status, message := contactErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetStats(c *gin.Context) {
	posts, err := h.content.ListAll()
	if err != nil {
		slog.Error("Content error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": gin.H{
			"total":      len(posts),
			"featured":   len(content.Featured(posts)),
			"categories": content.CategoryCounts(posts),
			"loaded_at":  h.content.LoadedAt().Format(time.RFC3339),
		},
		"rate_limiter": gin.H{
			"tracked_clients": h.limiter.Len(),
		},
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) ReloadContent(c *gin.Context) {
	reloadTask := tasks.NewReloadContentTask(h.content)
	if err := h.scheduler.EnqueueTask(reloadTask); err != nil {
		slog.Error("Error enqueueing reload task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue reload task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Content reload enqueued",
		"task": gin.H{
			"id":   reloadTask.ID,
			"type": reloadTask.Type,
		},
	})
}

// queryInt reads a positive integer query parameter, falling back to def when
// absent or malformed. A positive ceiling caps the value.
func queryInt(c *gin.Context, key string, def, floor, ceiling int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < floor {
		return def
	}

	if ceiling > 0 && value > ceiling {
		return ceiling
	}
	return value
}
