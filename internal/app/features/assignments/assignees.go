// internal/app/features/assignments/assignees.go
package assignments

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

type assigneesRequest struct {
	Usuarios []string `json:"usuarios"`
}

type removedResponse struct {
	Removed int64 `json:"removed"`
}

// ServeAssignees handles GET /assignments/{id}/assignees.
func (h *Handler) ServeAssignees(w http.ResponseWriter, r *http.Request) {
	if err := assignmentpolicy.CheckRequest(r, assignmentpolicy.OpReadAssignments, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Assignments.GetByID(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	refs, err := h.Assignments.ListAssignees(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, refs)
}

// HandleAddAssignees handles POST /assignments/{id}/assignees. Users who
// already hold a link are skipped; only new links are returned.
func (h *Handler) HandleAddAssignees(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageAssignees, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in assigneesRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	uids, err := httpjson.ParseIDs("usuarios", in.Usuarios)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if len(uids) == 0 {
		httpjson.Invalid(w, "Selecciona al menos un usuario.", map[string]string{"usuarios": "es obligatorio"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.requireUsers(ctx, uids); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	links, err := h.Assignments.AddUsers(ctx, id, uids)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if len(links) > 0 {
		added := make([]string, len(links))
		for i, l := range links {
			added[i] = l.UID.Hex()
		}
		h.AuditLog.AssigneesAdded(ctx, r, actor.UID, id.Hex(), added)
	}
	httpjson.Created(w, links)
}

// HandleRemoveAssignees handles POST /assignments/{id}/assignees/remove.
// Only links are deleted; comments on them stay reachable by link id.
func (h *Handler) HandleRemoveAssignees(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageAssignees, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in assigneesRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	uids, err := httpjson.ParseIDs("usuarios", in.Usuarios)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Assignments.RemoveUsers(ctx, uids, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if n > 0 {
		h.AuditLog.AssigneesRemoved(ctx, r, actor.UID, id.Hex(), hexes(uids))
	}
	httpjson.OK(w, removedResponse{Removed: n})
}
