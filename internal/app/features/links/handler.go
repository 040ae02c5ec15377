// internal/app/features/links/handler.go
package links

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	assignmentuserstore "github.com/dalemusser/workhub/internal/app/store/assignmentusers"
	commentstore "github.com/dalemusser/workhub/internal/app/store/comments"
	"github.com/dalemusser/workhub/internal/app/store/queries/assignmentview"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves one user's side of an assignment: the link, its estado
// and its comment thread.
type Handler struct {
	Links    *assignmentuserstore.Store
	Comments *commentstore.Store
	View     *assignmentview.Builder
	Events   events.Publisher
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, view *assignmentview.Builder, pub events.Publisher, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		Links:    assignmentuserstore.New(db, logger),
		Comments: commentstore.New(db, logger),
		View:     view,
		Events:   pub,
		AuditLog: audit,
		Log:      logger,
	}
}

// authorizedLink loads the {id} link and checks op against its assignee.
// On failure the response has been written and ok is false.
func (h *Handler) authorizedLink(ctx context.Context, w http.ResponseWriter, r *http.Request, op assignmentpolicy.Op) (models.AssignmentUser, bool) {
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.AssignmentUser{}, false
	}
	link, err := h.Links.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.AssignmentUser{}, false
	}
	if err := assignmentpolicy.CheckRequest(r, op, assignmentpolicy.Resource{OwnerUID: link.UID.Hex()}); err != nil {
		httpjson.Error(w, h.Log, err)
		return models.AssignmentUser{}, false
	}
	return link, true
}

// authorizedThread loads the comment thread of the {id} link for reading.
// Removing an assignee deletes the link but keeps its comments, so a thread
// whose link is gone is still served to anyone who could read the link
// (admins and jefes) or who wrote in it. An empty orphan thread is 404.
func (h *Handler) authorizedThread(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]models.Comment, bool) {
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return nil, false
	}
	link, err := h.Links.GetByID(ctx, id)
	switch {
	case err == nil:
		if err := assignmentpolicy.CheckRequest(r, assignmentpolicy.OpReadLink, assignmentpolicy.Resource{OwnerUID: link.UID.Hex()}); err != nil {
			httpjson.Error(w, h.Log, err)
			return nil, false
		}
	case !errors.Is(err, apperr.ErrNotFound):
		httpjson.Error(w, h.Log, err)
		return nil, false
	}

	list, lerr := h.Comments.ListByLink(ctx, id)
	if lerr != nil {
		httpjson.Error(w, h.Log, lerr)
		return nil, false
	}
	if err == nil {
		return list, true
	}

	actor, _ := assignmentpolicy.ActorFromRequest(r)
	for _, c := range list {
		if assignmentpolicy.Check(actor, assignmentpolicy.OpReadLink, assignmentpolicy.Resource{OwnerUID: c.UIDUsuario.Hex()}) == nil {
			return list, true
		}
	}
	// Callers who may not read the orphan thread get the same answer as for
	// a link that never existed.
	httpjson.Error(w, h.Log, err)
	return nil, false
}
