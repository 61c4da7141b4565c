package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server
	Port           string   `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl        string   `long:"base-url" env:"BASE_URL" description:"Public base URL of the website (e.g., https://www.example.com)"`
	TrustedProxies []string `long:"trusted-proxy" env:"TRUSTED_PROXIES" env-delim:"," description:"Proxy addresses or CIDRs allowed to set X-Forwarded-For"`
	APIAccessKey   string   `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Content
	ContentDir    string `long:"content-dir" env:"CONTENT_DIR" default:"./content/blog" description:"Directory containing markdown blog posts"`
	ContentReload bool   `long:"content-reload" env:"CONTENT_RELOAD" description:"Periodically re-index the content directory"`

	// Contact form delivery
	SMTPHost          string   `long:"smtp-host" env:"SMTP_HOST" description:"SMTP server host (empty logs messages instead of sending)"`
	SMTPPort          int      `long:"smtp-port" env:"SMTP_PORT" default:"587" description:"SMTP server port"`
	SMTPUser          string   `long:"smtp-user" env:"SMTP_USER" description:"SMTP username"`
	SMTPPassword      string   `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
	MailFrom          string   `long:"mail-from" env:"MAIL_FROM" default:"noreply@sovereignrcm.com" description:"Sender address for contact notifications"`
	ContactRecipients []string `long:"contact-recipient" env:"CONTACT_RECIPIENTS" env-delim:"," default:"sales@sovereignrcm.com" description:"Addresses notified on contact form submissions"`

	// Rate limiting
	RateLimitMax     int           `long:"rate-limit-max" env:"RATE_LIMIT_MAX" default:"5" description:"Accepted contact submissions per client within the window"`
	RateLimitWindow  time.Duration `long:"rate-limit-window" env:"RATE_LIMIT_WINDOW" default:"60m" description:"Trailing rate limit window"`
	RateLimitMaxKeys int           `long:"rate-limit-max-keys" env:"RATE_LIMIT_MAX_KEYS" default:"10000" description:"Maximum number of tracked clients"`

	// Background tasks
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load reads .env (when present), environment variables and command-line flags.
// It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := Parse(os.Args[1:])
	if err != nil || cfg == nil {
		return cfg, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

// Parse builds a Cfg from args and the current environment without touching global state.
func Parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		TrustedProxies:    raw.TrustedProxies,
		APIAccessKey:      raw.APIAccessKey,
		ContentDir:        raw.ContentDir,
		ContentReload:     raw.ContentReload,
		SMTPHost:          raw.SMTPHost,
		SMTPPort:          raw.SMTPPort,
		SMTPUser:          raw.SMTPUser,
		SMTPPassword:      raw.SMTPPassword,
		MailFrom:          raw.MailFrom,
		ContactRecipients: raw.ContactRecipients,
		RateLimitMax:      raw.RateLimitMax,
		RateLimitWindow:   raw.RateLimitWindow,
		RateLimitMaxKeys:  raw.RateLimitMaxKeys,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	positive := map[string]int{
		"rate limit max":      cfg.RateLimitMax,
		"rate limit max keys": cfg.RateLimitMaxKeys,
		"worker count":        cfg.WorkerCount,
		"scheduler interval":  cfg.SchedulerInterval,
	}

	for name, value := range positive {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}

	if len(cfg.ContactRecipients) == 0 {
		return fmt.Errorf("at least one contact recipient is required")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			slog.Debug("Timezone configured", "timezone", timezone)
		}
	}
	return nil
}
