// internal/app/features/users/users.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

// ServeList handles GET /users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if err := assignmentpolicy.CheckRequest(r, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Dir.ListUsers(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, list)
}

// HandleCreate handles POST /users: identity account first, then the
// directory record flagged for first login.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var reg directory.Registration
	if err := httpjson.Decode(r, &reg); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	uid, err := h.Dir.RegisterUser(ctx, reg)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	user, err := h.Dir.GetUser(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.UserCreated(ctx, r, actor.UID, uid.Hex(), user.CorreoElectronico)
	httpjson.Created(w, user)
}

// ServeUser handles GET /users/{id}. Users may always read themselves.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	uid, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if actor.UID != uid.Hex() {
		if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
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

// HandleUpdate handles PATCH /users/{id}. Only fields present in the body
// change; an email change is applied to the identity account first.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	uid, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var upd directory.UserUpdate
	if err := httpjson.Decode(r, &upd); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Dir.UpdateUser(ctx, uid, upd)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if fields := upd.Fields(); len(fields) > 0 {
		h.AuditLog.UserUpdated(ctx, r, actor.UID, uid.Hex(), directory.JoinFields(fields))
	}
	httpjson.OK(w, user)
}
