package cfg

import "time"

type Cfg struct {
	// HTTP server
	Port           string
	BaseUrl        string
	TrustedProxies []string
	APIAccessKey   string

	// Content
	ContentDir    string
	ContentReload bool

	// Contact form delivery
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	MailFrom          string
	ContactRecipients []string

	// Rate limiting
	RateLimitMax     int
	RateLimitWindow  time.Duration
	RateLimitMaxKeys int

	// Background tasks
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// SMTPEnabled reports whether outbound mail should go through an SMTP server.
func (c *Cfg) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
