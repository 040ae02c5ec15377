// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	commentstore "github.com/dalemusser/workhub/internal/app/store/comments"
	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler edits and deletes single comments. Only the author (or an
// Admin) may touch a comment.
type Handler struct {
	Comments *commentstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Comments: commentstore.New(db, logger),
		AuditLog: audit,
		Log:      logger,
	}
}

type updateRequest struct {
	Contenido string `json:"contenido"`
}

// HandleUpdate handles PATCH /comments/{id}. Only the content changes.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in updateRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	owner := assignmentpolicy.Resource{OwnerUID: c.UIDUsuario.Hex()}
	if err := assignmentpolicy.CheckRequest(r, assignmentpolicy.OpEditComment, owner); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := h.Comments.Update(ctx, id, in.Contenido)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, updated)
}

// HandleDelete handles DELETE /comments/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpDeleteComment, assignmentpolicy.Resource{OwnerUID: c.UIDUsuario.Hex()}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.CommentDeleted(ctx, r, actor.UID, id.Hex())
	httpjson.NoContent(w)
}
