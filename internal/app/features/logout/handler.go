// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

// HandleLogout handles POST /logout. It always expires the cookie, so
// calling it without a session is not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	httpjson.NoContent(w)
}
