package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/gofeed"
	"github.com/sovereignrcm/rcm-site/app/contact"
	"github.com/sovereignrcm/rcm-site/app/content"
	"github.com/sovereignrcm/rcm-site/app/ratelimit"
	"github.com/sovereignrcm/rcm-site/app/tasks"
)

const testAPIKey = "secret-key"

type mockMailer struct {
	sent []contact.Message
	err  error
}

func (m *mockMailer) Send(ctx context.Context, msg contact.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type mockScheduler struct {
	enqueued []tasks.TaskInterface
	err      error
}

func (m *mockScheduler) Start() {}
func (m *mockScheduler) Stop()  {}

func (m *mockScheduler) EnqueueTask(task tasks.TaskInterface) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, task)
	return nil
}

type testEnv struct {
	router    *gin.Engine
	mailer    *mockMailer
	scheduler *mockScheduler
	limiter   *ratelimit.Limiter
}

func writeTestPost(t *testing.T, dir, slug string, category content.Category, date string, featured bool) {
	t.Helper()

	data := fmt.Sprintf(`---
slug: %s
title: "Title %s"
date: %s
author: Dana Reyes
category: %s
excerpt: Excerpt %s
featured: %t
---
## Overview

Body of %s.
`, slug, slug, date, category, slug, featured, slug)

	if err := os.WriteFile(filepath.Join(dir, slug+".md"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func setupTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	writeTestPost(t, dir, "ai-one", content.CategoryAIInsights, "2024-01-05", true)
	writeTestPost(t, dir, "ai-two", content.CategoryAIInsights, "2024-02-05", false)
	writeTestPost(t, dir, "news-one", content.CategoryCompanyNews, "2024-03-05", false)
	writeTestPost(t, dir, "pm-one", content.CategoryPracticeManagement, "2024-04-05", true)

	cache := content.NewCache(content.NewStore(dir, content.NewRenderer()))
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	limiter, err := ratelimit.NewLimiter(ratelimit.DefaultMaxAttempts, ratelimit.DefaultWindow, ratelimit.DefaultMaxKeys)
	if err != nil {
		t.Fatal(err)
	}

	mailer := &mockMailer{}
	service := contact.NewService(limiter, mailer, contact.Config{
		From:       "noreply@sovereignrcm.com",
		Recipients: []string{"sales@sovereignrcm.com"},
	})

	scheduler := &mockScheduler{}
	generator := content.NewGenerator(content.SiteInfo{Title: "Blog", BaseURL: "https://sovereignrcm.com"})

	handler := NewHandler(cache, generator, service, limiter, scheduler)
	router, err := NewServer(handler, ServerConfig{APIAccessKey: apiKey, Version: "test"})
	if err != nil {
		t.Fatal(err)
	}

	return &testEnv{router: router, mailer: mailer, scheduler: scheduler, limiter: limiter}
}

func (e *testEnv) do(t *testing.T, method, path string, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestRootAndHealth(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}

	w = env.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var health struct {
		Posts int `json:"posts"`
	}
	decode(t, w, &health)
	if health.Posts != 4 {
		t.Errorf("Expected 4 posts, got %d", health.Posts)
	}
}

func TestRequestIDPassThrough(t *testing.T) {
	env := setupTestEnv(t, "")

	id := "7f0c3f7e-7a43-4a8e-9b1e-3f1f2c9f5a10"
	w := env.do(t, http.MethodGet, "/health", "", "X-Request-ID", id)
	if got := w.Header().Get("X-Request-ID"); got != id {
		t.Errorf("Expected request ID %s, got %s", id, got)
	}

	w = env.do(t, http.MethodGet, "/health", "", "X-Request-ID", "not-a-uuid")
	if got := w.Header().Get("X-Request-ID"); got == "not-a-uuid" || got == "" {
		t.Errorf("Expected a generated request ID, got %q", got)
	}
}

func TestListPosts(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/posts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var page content.Page
	decode(t, w, &page)
	if page.Total != 4 || len(page.Posts) != 4 {
		t.Fatalf("Expected 4 posts, got total=%d len=%d", page.Total, len(page.Posts))
	}
	if page.Posts[0].Slug != "pm-one" {
		t.Errorf("Expected newest post first, got %s", page.Posts[0].Slug)
	}
	if page.Posts[0].Content != "" {
		t.Error("Expected listing without content")
	}

	w = env.do(t, http.MethodGet, "/api/posts?category=ai-insights&per_page=1&page=2", "")
	decode(t, w, &page)
	if page.Total != 2 || page.TotalPages != 2 || len(page.Posts) != 1 || page.Posts[0].Slug != "ai-one" {
		t.Errorf("Unexpected filtered page: %+v", page)
	}

	w = env.do(t, http.MethodGet, "/api/posts?category=gossip", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown category, got %d", w.Code)
	}
}

func TestRecentAndFeaturedPosts(t *testing.T) {
	env := setupTestEnv(t, "")

	var resp struct {
		Posts []content.Post `json:"posts"`
	}

	w := env.do(t, http.MethodGet, "/api/posts/recent", "")
	decode(t, w, &resp)
	if len(resp.Posts) != 3 {
		t.Errorf("Expected 3 recent posts by default, got %d", len(resp.Posts))
	}

	w = env.do(t, http.MethodGet, "/api/posts/recent?limit=1", "")
	decode(t, w, &resp)
	if len(resp.Posts) != 1 || resp.Posts[0].Slug != "pm-one" {
		t.Errorf("Expected [pm-one], got %+v", resp.Posts)
	}

	w = env.do(t, http.MethodGet, "/api/posts/featured", "")
	decode(t, w, &resp)
	if len(resp.Posts) != 2 || resp.Posts[0].Slug != "pm-one" || resp.Posts[1].Slug != "ai-one" {
		t.Errorf("Expected [pm-one ai-one], got %+v", resp.Posts)
	}
}

func TestGetPost(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/posts/ai-one", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Post    content.Post   `json:"post"`
		Related []content.Post `json:"related"`
	}
	decode(t, w, &resp)

	if resp.Post.Slug != "ai-one" || !strings.Contains(resp.Post.Content, "Body of ai-one") {
		t.Errorf("Unexpected post: %+v", resp.Post)
	}
	if len(resp.Post.Headings) != 1 || resp.Post.Headings[0].ID != "overview" {
		t.Errorf("Expected overview heading, got %+v", resp.Post.Headings)
	}

	// One same-category post, then the newest from other categories.
	if len(resp.Related) != 3 || resp.Related[0].Slug != "ai-two" || resp.Related[1].Slug != "pm-one" || resp.Related[2].Slug != "news-one" {
		t.Errorf("Unexpected related posts: %+v", resp.Related)
	}
}

func TestGetPostNotFound(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/posts/does-not-exist", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var resp map[string]string
	decode(t, w, &resp)
	if resp["error"] == "" {
		t.Error("Expected error message")
	}
}

func TestListCategories(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/categories", "")

	var resp struct {
		Categories []content.CategoryCount `json:"categories"`
	}
	decode(t, w, &resp)

	if len(resp.Categories) != 4 {
		t.Fatalf("Expected 4 categories, got %d", len(resp.Categories))
	}
	if resp.Categories[1].Key != content.CategoryAIInsights || resp.Categories[1].Count != 2 {
		t.Errorf("Unexpected AI insights count: %+v", resp.Categories[1])
	}
}

func TestFeedAndSitemap(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/feed.xml", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/rss+xml") {
		t.Errorf("Unexpected content type: %s", w.Header().Get("Content-Type"))
	}

	feed, err := gofeed.NewParser().ParseString(w.Body.String())
	if err != nil {
		t.Fatalf("Feed should parse: %v", err)
	}
	if len(feed.Items) != 4 || feed.Items[0].Link != "https://sovereignrcm.com/blog/pm-one" {
		t.Errorf("Unexpected feed items: %d", len(feed.Items))
	}

	w = env.do(t, http.MethodGet, "/sitemap.xml", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<loc>https://sovereignrcm.com/blog/ai-two</loc>") {
		t.Error("Expected sitemap to list posts")
	}
}

const validContact = `{"name":"Jordan Lee","email":"jordan@clinic.example","practice":"Lakeside","message":"Demo please"}`

func TestSubmitContact(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/api/contact", validContact)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	decode(t, w, &resp)
	if resp["success"] != true {
		t.Errorf("Expected success true, got %v", resp)
	}

	if len(env.mailer.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(env.mailer.sent))
	}
	if env.mailer.sent[0].Subject != "New contact form submission from Jordan Lee (Lakeside)" {
		t.Errorf("Unexpected subject: %s", env.mailer.sent[0].Subject)
	}
}

func TestSubmitContactHoneypot(t *testing.T) {
	env := setupTestEnv(t, "")

	body := `{"name":"Bot","email":"bot@spam.example","message":"Hi","company_url":"http://spam.example"}`
	w := env.do(t, http.MethodPost, "/api/contact", body)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if len(env.mailer.sent) != 0 {
		t.Errorf("Expected no messages, got %d", len(env.mailer.sent))
	}
}

func TestSubmitContactValidation(t *testing.T) {
	env := setupTestEnv(t, "")

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest, "Invalid request body"},
		{"missing message", `{"name":"A","email":"a@b.co"}`, http.StatusBadRequest, "Name, email, and message are required"},
		{"bad email", `{"name":"A","email":"a@b","message":"hi"}`, http.StatusBadRequest, "Please provide a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/contact", tt.body)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}

			var resp map[string]string
			decode(t, w, &resp)
			if resp["error"] != tt.message {
				t.Errorf("Expected error %q, got %q", tt.message, resp["error"])
			}
		})
	}

	if len(env.mailer.sent) != 0 {
		t.Errorf("Expected no messages, got %d", len(env.mailer.sent))
	}
}

func TestSubmitContactRateLimit(t *testing.T) {
	env := setupTestEnv(t, "")

	// Undecodable bodies are not attempts.
	for i := 0; i < 3; i++ {
		env.do(t, http.MethodPost, "/api/contact", "not json")
	}

	for i := 1; i <= 5; i++ {
		if w := env.do(t, http.MethodPost, "/api/contact", validContact); w.Code != http.StatusOK {
			t.Fatalf("Expected submission %d to succeed, got %d", i, w.Code)
		}
	}

	w := env.do(t, http.MethodPost, "/api/contact", validContact)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}

	var resp map[string]string
	decode(t, w, &resp)
	if resp["error"] != contact.MsgRateLimited {
		t.Errorf("Unexpected error message: %q", resp["error"])
	}

	if len(env.mailer.sent) != 5 {
		t.Errorf("Expected 5 messages, got %d", len(env.mailer.sent))
	}

	// Forwarding headers are ignored without trusted proxies.
	w = env.do(t, http.MethodPost, "/api/contact", validContact, "X-Forwarded-For", "203.0.113.9")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
}

func TestSubmitContactDeliveryFailure(t *testing.T) {
	env := setupTestEnv(t, "")
	env.mailer.err = errors.New("dial tcp: connection refused")

	w := env.do(t, http.MethodPost, "/api/contact", validContact)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	var resp map[string]string
	decode(t, w, &resp)
	if resp["error"] != "Failed to send message. Please try again later." {
		t.Errorf("Unexpected error message: %q", resp["error"])
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("Expected transport details to stay out of the response")
	}
}

func TestAdminEndpoints(t *testing.T) {
	env := setupTestEnv(t, testAPIKey)

	if w := env.do(t, http.MethodGet, "/api/admin/stats", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without key, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/admin/stats", "", "X-API-Key", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with wrong key, got %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/admin/stats", "", "X-API-Key", testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/admin/stats", "", "Authorization", "Bearer "+testAPIKey)
	if w.Code != http.StatusOK {
		t.Errorf("Expected bearer token to be accepted, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/admin/content/reload", "", "X-API-Key", testAPIKey)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	if len(env.scheduler.enqueued) != 1 || env.scheduler.enqueued[0].GetType() != tasks.TaskTypeReloadContent {
		t.Errorf("Expected one reload task, got %v", env.scheduler.enqueued)
	}

	env.scheduler.err = fmt.Errorf("task queue is full")
	w = env.do(t, http.MethodPost, "/api/admin/content/reload", "", "X-API-Key", testAPIKey)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500 when queue is full, got %d", w.Code)
	}
}

func TestAdminEndpointsDisabledWithoutKey(t *testing.T) {
	env := setupTestEnv(t, "")

	if w := env.do(t, http.MethodGet, "/api/admin/stats", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t, "")

	w := env.do(t, http.MethodOptions, "/api/contact", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestQueryIntParsing(t *testing.T) {
	env := setupTestEnv(t, "")

	var page content.Page
	w := env.do(t, http.MethodGet, "/api/posts?page=abc&per_page=500", "")
	decode(t, w, &page)

	if page.Page != 1 {
		t.Errorf("Expected malformed page to default to 1, got %d", page.Page)
	}
	if page.PerPage != maxListLimit {
		t.Errorf("Expected per_page capped to %d, got %d", maxListLimit, page.PerPage)
	}
}
