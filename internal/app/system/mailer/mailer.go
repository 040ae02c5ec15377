// internal/app/system/mailer/mailer.go
package mailer

import (
	"crypto/tls"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Email is one outgoing message. HTMLBody is optional; when present it is
// sent as an alternative to TextBody.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email.
type Sender interface {
	Send(m Email) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer sends mail through an SMTP server.
type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
	log    *zap.Logger
}

// New builds an SMTP mailer. Nothing is dialed until the first Send.
func New(cfg Config, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	return &Mailer{cfg: cfg, dialer: d, log: log}
}

// Send delivers m.
func (ml *Mailer) Send(m Email) error {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	msg.SetAddressHeader("From", ml.cfg.From, ml.cfg.FromName)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.TextBody)
	if m.HTMLBody != "" {
		msg.AddAlternative("text/html", m.HTMLBody)
	}

	if err := ml.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	ml.log.Debug("email sent", zap.String("to", m.To), zap.String("subject", m.Subject))
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when
// no SMTP host is configured.
type LogSender struct {
	Log *zap.Logger
}

func (l LogSender) Send(m Email) error {
	if l.Log != nil {
		l.Log.Info("email not sent (no SMTP host configured)",
			zap.String("to", m.To),
			zap.String("subject", m.Subject),
			zap.String("body", m.TextBody))
	}
	return nil
}

// Recorder keeps sent messages in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Email
}

func (r *Recorder) Send(m Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return nil
}

// Sent returns a copy of every message sent so far.
func (r *Recorder) Sent() []Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Email(nil), r.sent...)
}
