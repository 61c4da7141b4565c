package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

type ServerConfig struct {
	APIAccessKey   string
	TrustedProxies []string
	Version        string
	Debug          bool
}

// NewServer creates the HTTP engine with all routes configured
func NewServer(handler *Handler, config ServerConfig) (*gin.Engine, error) {
	if config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	if err := r.SetTrustedProxies(config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(requestIDMiddleware())

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\" %v\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
				param.Keys[requestIDKey],
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, config)

	return r, nil
}

func setupRoutes(r *gin.Engine, handler *Handler, config ServerConfig) {
	r.GET("/health", handler.GetHealth)

	r.GET("/feed.xml", handler.GetFeed)
	r.GET("/sitemap.xml", handler.GetSitemap)

	api := r.Group("/api")
	{
		api.GET("/posts", handler.ListPosts)
		api.GET("/posts/recent", handler.ListRecentPosts)
		api.GET("/posts/featured", handler.ListFeaturedPosts)
		api.GET("/posts/:slug", handler.GetPost)
		api.GET("/categories", handler.ListCategories)

		api.POST("/contact", handler.SubmitContact)

		api.GET("/roi/specialties", handler.ListSpecialties)
		api.POST("/roi/estimate", handler.EstimateROI)
		api.POST("/roi/state", handler.TransitionROIState)
	}

	// Admin endpoints (conditionally enabled with authentication)
	if config.APIAccessKey != "" {
		admin := r.Group("/api/admin")
		admin.Use(authMiddleware(config.APIAccessKey))
		{
			admin.GET("/stats", handler.GetStats)
			admin.POST("/content/reload", handler.ReloadContent)
		}
		slog.Info("Admin endpoints enabled with authentication")
	} else {
		slog.Info("Admin endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"health":     "/health",
			"posts":      "/api/posts?category=<key>&page=<n>&per_page=<n>",
			"recent":     "/api/posts/recent?limit=<n>",
			"featured":   "/api/posts/featured",
			"post":       "/api/posts/<slug>",
			"categories": "/api/categories",
			"feed":       "/feed.xml",
			"sitemap":    "/sitemap.xml",
			"contact":    "/api/contact (POST)",
			"roi":        "/api/roi/specialties, /api/roi/estimate (POST), /api/roi/state (POST)",
		}

		if config.APIAccessKey != "" {
			endpoints["stats"] = "/api/admin/stats (requires X-API-Key header)"
			endpoints["reload"] = "/api/admin/content/reload (POST, requires X-API-Key header)"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "RCM Site",
			"version":     config.Version,
			"description": "Blog, contact and ROI estimator backend for the Sovereign RCM website",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       config.APIAccessKey != "",
				"auth_required": config.APIAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
