// internal/app/features/login/handler.go
package login

import (
	"errors"

	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/identity"
	"github.com/dalemusser/workhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler signs users in and drives the password reset flow.
type Handler struct {
	Identity   identity.Provider
	Dir        *directory.Service
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.AuthLimiter // nil disables throttling
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(idp identity.Provider, dir *directory.Service, sm *auth.SessionManager, limiter *ratelimit.AuthLimiter, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Identity:   idp,
		Dir:        dir,
		SessionMgr: sm,
		Limiter:    limiter,
		AuditLog:   audit,
		Log:        logger,
	}
}

// User-facing messages.
const (
	msgMissingCredentials = "Ingresa tu correo y contraseña."
	msgInvalidCredentials = "Correo o contraseña incorrectos."
	msgAccountDisabled    = "Tu cuenta está deshabilitada. Contacta a un administrador."
	msgNoDirectoryRecord  = "Tu cuenta no tiene un usuario asociado. Contacta a un administrador."
	msgFirstLogin         = "Es tu primer inicio de sesión. Te enviamos un correo para crear tu contraseña."
	msgResetRequested     = "Si el correo está registrado, recibirás un enlace para restablecer tu contraseña."
	msgResetDone          = "Tu contraseña fue actualizada. Ya puedes iniciar sesión."
	msgInvalidToken       = "El enlace no es válido o ya expiró. Solicita uno nuevo."
)

// Error codes beyond the ones httpjson.Status produces.
const (
	codeInvalidCredentials = "invalid_credentials"
	codeAccountDisabled    = "account_disabled"
	codeNoDirectoryRecord  = "no_directory_record"
	codeFirstLogin         = "first_login"
	codeRateLimited        = "rate_limited"
	codeInvalidToken       = "invalid_token"
)

var errNoDirectoryRecord = errors.New("account has no directory record")
