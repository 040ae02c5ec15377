// internal/app/bootstrap/services.go
package bootstrap

import (
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/identity"
	"github.com/dalemusser/workhub/internal/app/system/mailer"
	"go.uber.org/zap"
)

// newIdentity builds the local identity provider. Without an SMTP host,
// reset mail is written to the log.
func newIdentity(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *identity.Local {
	var sender mailer.Sender
	if appCfg.MailSMTPHost != "" {
		sender = mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger)
	} else {
		logger.Warn("mail_smtp_host not set; password reset mail will only be logged")
	}
	return identity.NewLocal(deps.MongoDatabase, sender, identity.Config{
		SiteName:    appCfg.MailFromName,
		BaseURL:     appCfg.BaseURL,
		ResetExpiry: appCfg.PasswordResetExpiry,
	}, logger)
}

func newDirectory(idp identity.Provider, deps DBDeps, logger *zap.Logger) *directory.Service {
	return directory.NewService(deps.MongoDatabase, deps.Cache, idp, logger)
}
