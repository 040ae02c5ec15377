// internal/app/features/links/view.go
package links

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

// ServeLink handles GET /links/{id}: the selected-assignment view. The
// caller is checked against the link's assignee before any join runs.
func (h *Handler) ServeLink(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	link, ok := h.authorizedLink(ctx, w, r, assignmentpolicy.OpReadLink)
	if !ok {
		return
	}
	view, err := h.View.ForLink(ctx, link)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, view)
}

type statusRequest struct {
	Estado string `json:"estado"`
}

// HandleStatus handles PATCH /links/{id}/status. Any of the three states
// may follow any other.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	link, ok := h.authorizedLink(ctx, w, r, assignmentpolicy.OpUpdateStatus)
	if !ok {
		return
	}
	if err := h.Links.UpdateEstado(ctx, link.ID, in.Estado); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	link.Estado = in.Estado
	link.UpdatedAt = time.Now().UTC()

	actor, _ := assignmentpolicy.ActorFromRequest(r)
	h.AuditLog.LinkStatusChanged(ctx, r, actor.UID, link.ID.Hex(), in.Estado)
	h.Events.Publish(ctx, events.Event{
		Type:         events.LinkStatusChanged,
		AssignmentID: link.IDAsignacion.Hex(),
		LinkID:       link.ID.Hex(),
		ActorUID:     actor.UID,
		Estado:       in.Estado,
		At:           link.UpdatedAt,
	})
	httpjson.OK(w, link)
}
