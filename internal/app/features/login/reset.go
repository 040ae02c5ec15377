// internal/app/features/login/reset.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/identity"
	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

type forgotRequest struct {
	Email string `json:"correoElectronico"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleForgot handles POST /login/forgot. The response is the same whether
// or not the email is registered.
func (h *Handler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var in forgotRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	email := normalize.Email(in.Email)
	if email == "" {
		httpjson.Invalid(w, "Ingresa tu correo.", map[string]string{"correoElectronico": "es obligatorio"})
		return
	}
	if msg, ok := h.Limiter.Check(r, email); !ok {
		httpjson.Write(w, http.StatusTooManyRequests, httpjson.ErrorBody{Error: msg, Code: codeRateLimited})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opts := identity.ResetMail{}
	if u, err := h.Dir.GetUserByEmail(ctx, email); err == nil {
		opts.Nombre = u.Nombre
	}
	if err := h.Identity.SendPasswordReset(ctx, email, opts); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.PasswordResetRequested(ctx, r, email)
	httpjson.Write(w, http.StatusAccepted, messageResponse{Message: msgResetRequested})
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleReset handles POST /login/reset. Completing a reset marks the
// account email verified, which lifts the first-login gate.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var in resetRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if in.Token == "" {
		httpjson.Invalid(w, msgInvalidToken, map[string]string{"token": "es obligatorio"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	uid, err := h.Identity.ConfirmPasswordReset(ctx, in.Token, in.Password)
	if errors.Is(err, identity.ErrInvalidToken) {
		httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorBody{Error: msgInvalidToken, Code: codeInvalidToken})
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.PasswordResetCompleted(ctx, r, uid.Hex())
	httpjson.OK(w, messageResponse{Message: msgResetDone})
}
