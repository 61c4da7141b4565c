package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sovereignrcm/rcm-site/app/api"
	"github.com/sovereignrcm/rcm-site/app/cfg"
	"github.com/sovereignrcm/rcm-site/app/contact"
	"github.com/sovereignrcm/rcm-site/app/content"
	"github.com/sovereignrcm/rcm-site/app/ratelimit"
	"github.com/sovereignrcm/rcm-site/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown
		return
	}

	setupLogging(appConfig.Debug)

	slog.Info("Starting RCM Site server", "version", appConfig.Version)

	store := content.NewStore(appConfig.ContentDir, content.NewRenderer())
	contentCache := content.NewCache(store)
	if err := contentCache.Run(); err != nil {
		slog.Error("Failed to load content", "dir", appConfig.ContentDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Content loaded", "dir", appConfig.ContentDir, "posts", contentCache.GetPostCount())

	limiter, err := ratelimit.NewLimiter(appConfig.RateLimitMax, appConfig.RateLimitWindow, appConfig.RateLimitMaxKeys)
	if err != nil {
		slog.Error("Failed to create rate limiter", "error", err)
		os.Exit(1)
	}

	contactService := contact.NewService(limiter, newMailer(appConfig), contact.Config{
		From:       appConfig.MailFrom,
		Recipients: appConfig.ContactRecipients,
	})

	scheduler := tasks.NewScheduler(limiter, contentCache, tasks.SchedulerConfig{
		Interval:      time.Duration(appConfig.SchedulerInterval) * time.Second,
		WorkerCount:   appConfig.WorkerCount,
		ReloadContent: appConfig.ContentReload,
	})
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount)

	generator := content.NewGenerator(content.SiteInfo{
		Title:       "Sovereign RCM Blog",
		Description: "Revenue cycle management insights for independent practices",
		BaseURL:     appConfig.BaseUrl,
		Version:     appConfig.Version,
	})

	apiHandler := api.NewHandler(contentCache, generator, contactService, limiter, scheduler)
	server, err := api.NewServer(apiHandler, api.ServerConfig{
		APIAccessKey:   appConfig.APIAccessKey,
		TrustedProxies: appConfig.TrustedProxies,
		Version:        appConfig.Version,
		Debug:          appConfig.Debug,
	})
	if err != nil {
		slog.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("RCM Site server shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newMailer(c *cfg.Cfg) contact.Mailer {
	if !c.SMTPEnabled() {
		slog.Warn("SMTP_HOST not set, contact messages will be logged instead of sent")
		return contact.LogMailer{}
	}

	slog.Info("Contact messages delivered via SMTP", "host", c.SMTPHost, "port", c.SMTPPort)
	return contact.NewSMTPMailer(contact.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
	})
}
