// internal/app/features/userinfo/handler.go
package userinfo

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's directory record.
type Handler struct {
	Dir *directory.Service
	Log *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(dir *directory.Service, logger *zap.Logger) *Handler {
	return &Handler{Dir: dir, Log: logger}
}

// ServeMe handles GET /me with the resolved user (area, position and role
// names included).
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "unauthorized", Code: "unauthorized"})
		return
	}
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.Log.Warn("session user id is not an ObjectID", zap.String("user_id", u.ID))
		httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "unauthorized", Code: "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Dir.GetUser(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, user)
}
