package api

import (
	"context"
	"time"

	"github.com/sovereignrcm/rcm-site/app/contact"
	"github.com/sovereignrcm/rcm-site/app/content"
	"github.com/sovereignrcm/rcm-site/app/roi"
	"github.com/sovereignrcm/rcm-site/app/tasks"
)

// ContentIndex is the cached view of the blog directory.
type ContentIndex interface {
	ListAll() ([]content.Post, error)
	GetBySlug(slug string) (*content.Post, error)
	Run() error
	GetPostCount() int
	LoadedAt() time.Time
}

var _ ContentIndex = (*content.Cache)(nil)

type FeedGenerator interface {
	Run(posts []content.Post) (string, error)
	Sitemap(posts []content.Post) (string, error)
}

var _ FeedGenerator = (*content.Generator)(nil)

type ContactSubmitter interface {
	Submit(ctx context.Context, clientKey string, sub contact.Submission) (contact.Receipt, error)
}

var _ ContactSubmitter = (*contact.Service)(nil)

type LimiterStats interface {
	Len() int
}

type Handler struct {
	content   ContentIndex
	generator FeedGenerator
	contact   ContactSubmitter
	limiter   LimiterStats
	scheduler tasks.TaskSchedulerInterface
	startedAt time.Time
}

type roiStateRequest struct {
	State  *roi.State `json:"state"`
	Action roi.Action `json:"action"`
}
