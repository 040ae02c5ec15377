// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side: ports, TLS, logging level, CORS and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: workhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// IANA zone used to render comment dates and group them by day.
	DisplayTimeZone string

	// Email/SMTP configuration. A blank host logs mail instead of sending it.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL for password reset links
	BaseURL             string
	PasswordResetExpiry time.Duration

	// HS256 secret for /functions bearer tokens. Blank disables /functions.
	FunctionsSecret string

	// Optional backends. Blank values fall back to in-process implementations.
	RedisURL     string   // directory cache
	KafkaBrokers []string // domain events
	KafkaTopic   string

	// Audit logging modes: all, db, log, off
	AuditLogAuth  string
	AuditLogAdmin string
	// Days audit events are kept. Zero keeps them forever.
	AuditLogRetentionDays int

	// Admin bootstrap. When AdminEmail is set and no user has it, an Admin
	// user is created on startup.
	AdminEmail    string
	AdminPassword string
	AdminName     string
}
