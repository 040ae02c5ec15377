// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/identity"
	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"correoElectronico"`
	Password string `json:"password"`
}

// HandleLogin handles POST /login.
//
// A first sign-in whose email has never been verified is refused: a
// "create your password" mail is sent instead. Once the email is verified
// the first-login flag is cleared on the next successful sign-in.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		httpjson.Invalid(w, msgMissingCredentials, nil)
		return
	}
	if msg, ok := h.Limiter.Check(r, email); !ok {
		httpjson.Write(w, http.StatusTooManyRequests, httpjson.ErrorBody{Error: msg, Code: codeRateLimited})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	acct, err := h.Identity.SignIn(ctx, email, in.Password)
	switch {
	case errors.Is(err, identity.ErrUnknownAccount):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.refuse(w, http.StatusUnauthorized, msgInvalidCredentials, codeInvalidCredentials)
		return
	case errors.Is(err, identity.ErrWrongPassword):
		h.AuditLog.LoginFailedWrongPassword(ctx, r, acct.ID.Hex(), email)
		h.refuse(w, http.StatusUnauthorized, msgInvalidCredentials, codeInvalidCredentials)
		return
	case errors.Is(err, identity.ErrAccountDisabled):
		h.AuditLog.LoginFailedUserDisabled(ctx, r, acct.ID.Hex(), email)
		h.refuse(w, http.StatusForbidden, msgAccountDisabled, codeAccountDisabled)
		return
	case err != nil:
		httpjson.Error(w, h.Log, err)
		return
	}

	user, err := h.directoryUser(ctx, acct)
	if errors.Is(err, errNoDirectoryRecord) {
		h.refuse(w, http.StatusForbidden, msgNoDirectoryRecord, codeNoDirectoryRecord)
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if user.PrimerInicioSesion {
		if !acct.EmailVerified {
			if err := h.Identity.SendPasswordReset(ctx, email, identity.ResetMail{Nombre: user.Nombre, FirstLogin: true}); err != nil {
				httpjson.Error(w, h.Log, err)
				return
			}
			h.AuditLog.FirstLoginPending(ctx, r, acct.ID.Hex(), email)
			h.refuse(w, http.StatusForbidden, msgFirstLogin, codeFirstLogin)
			return
		}
		if err := h.Dir.MarkFirstLoginDone(ctx, acct.ID); err != nil {
			// The session is still valid; the flag is retried next sign-in.
			h.Log.Warn("clear first-login flag failed", zap.String("uid", acct.ID.Hex()), zap.Error(err))
		} else {
			user.PrimerInicioSesion = false
		}
	}

	if err := h.SessionMgr.SignIn(w, r, acct.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.String("uid", acct.ID.Hex()), zap.Error(err))
		httpjson.Error(w, h.Log, apperr.Backend("save session", err))
		return
	}
	h.Limiter.Succeeded(email)
	h.AuditLog.LoginSuccess(ctx, r, acct.ID.Hex(), email)
	httpjson.OK(w, user)
}

func (h *Handler) directoryUser(ctx context.Context, acct models.Account) (models.ResolvedUser, error) {
	user, err := h.Dir.GetUser(ctx, acct.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		h.Log.Warn("sign-in for account without directory record",
			zap.String("uid", acct.ID.Hex()), zap.String("email", acct.Email))
		return models.ResolvedUser{}, errNoDirectoryRecord
	}
	return user, err
}

func (h *Handler) refuse(w http.ResponseWriter, status int, msg, code string) {
	httpjson.Write(w, status, httpjson.ErrorBody{Error: msg, Code: code})
}
