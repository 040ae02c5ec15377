// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/workhub/internal/app/system/localize"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for WorkHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: WORKHUB_MONGO_URI, WORKHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "workhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "workhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	{Name: "display_time_zone", Default: localize.DefaultZone, Desc: "IANA time zone for comment dates"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank logs mail instead of sending)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@workhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "WorkHub", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for password reset links"},
	{Name: "password_reset_expiry", Default: "1h", Desc: "Password reset link expiry (e.g., 30m, 1h)"},

	{Name: "functions_secret", Default: "", Desc: "HS256 secret for /functions bearer tokens (blank disables)"},

	{Name: "redis_url", Default: "", Desc: "Redis URL for the directory cache (blank uses an in-process cache)"},
	{Name: "kafka_brokers", Default: "", Desc: "Comma-separated Kafka brokers for domain events (blank disables)"},
	{Name: "kafka_topic", Default: "workhub.events", Desc: "Kafka topic for domain events"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_retention_days", Default: 0, Desc: "Delete audit events older than this many days (0 keeps them)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap Admin user (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Initial password of the bootstrap Admin user"},
	{Name: "admin_name", Default: "Administrador", Desc: "Display name of the bootstrap Admin user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// WORKHUB_* environment variables and flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WORKHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		DisplayTimeZone: appValues.String("display_time_zone"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:             appValues.String("base_url"),
		PasswordResetExpiry: appValues.Duration("password_reset_expiry", time.Hour),

		FunctionsSecret: appValues.String("functions_secret"),

		RedisURL:     appValues.String("redis_url"),
		KafkaBrokers: splitList(appValues.String("kafka_brokers")),
		KafkaTopic:   appValues.String("kafka_topic"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		AuditLogRetentionDays: appValues.Int("audit_log_retention_days"),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// WorkHub validates the MongoDB URI format and the display time zone to
// catch configuration errors before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if _, err := localize.LoadLocation(appCfg.DisplayTimeZone); err != nil {
		return fmt.Errorf("invalid display_time_zone %q: %w", appCfg.DisplayTimeZone, err)
	}
	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_email requires admin_password")
	}
	if appCfg.AuditLogRetentionDays < 0 {
		return fmt.Errorf("audit_log_retention_days must not be negative")
	}
	if len(appCfg.KafkaBrokers) > 0 && appCfg.KafkaTopic == "" {
		return fmt.Errorf("kafka_brokers requires kafka_topic")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be set in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
