// internal/app/features/assignments/list.go
package assignments

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/workhub/internal/app/store/queries/assignmentqueries"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

// ServeList handles GET /assignments: every assignment, for supervisors.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if err := assignmentpolicy.CheckRequest(r, assignmentpolicy.OpReadAssignments, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Assignments.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, list)
}

// ServeMine handles GET /assignments/mine: the caller's assignments, each
// carrying idAsignacionesXUsuario so the client can open the caller's link.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	uid, err := actor.OID()
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := assignmentqueries.ListForUser(ctx, h.DB, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, list)
}

// ServeCreated handles GET /assignments/created: assignments the caller
// created, each with its assignees' directory info and estado.
func (h *Handler) ServeCreated(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	uid, err := actor.OID()
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	snap, err := h.Dir.Snapshot(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	list, err := assignmentqueries.ListCreatedByWithAssignees(ctx, h.DB, snap, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, list)
}

// ServeAssignment handles GET /assignments/{id}.
func (h *Handler) ServeAssignment(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, a)
}
