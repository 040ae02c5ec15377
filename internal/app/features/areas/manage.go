// internal/app/features/areas/manage.go
package areas

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	positionstore "github.com/dalemusser/workhub/internal/app/store/positions"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

type createAreaRequest struct {
	Nombre string `json:"nombre"`
}

// HandleCreateArea handles POST /areas.
func (h *Handler) HandleCreateArea(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in createAreaRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	area, err := h.Dir.CreateArea(ctx, in.Nombre)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.AreaCreated(ctx, r, actor.UID, area.ID.Hex(), area.Nombre)
	httpjson.Created(w, area)
}

type createPositionsRequest struct {
	Puestos []positionstore.Input `json:"puestos"`
}

// HandleCreatePositions handles POST /areas/{id}/positions. Names already
// present under the area are reported as skipped rather than failing.
func (h *Handler) HandleCreatePositions(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	areaID, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in createPositionsRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if len(in.Puestos) == 0 {
		httpjson.Invalid(w, "Agrega al menos un puesto.", map[string]string{"puestos": "es obligatorio"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Dir.CreatePositions(ctx, areaID, in.Puestos)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.PositionsCreated(ctx, r, actor.UID, areaID.Hex(), len(res.Created), len(res.Skipped))
	httpjson.Created(w, res)
}

type deletePositionsRequest struct {
	IDs []string `json:"ids"`
}

type deletePositionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleDeletePositions handles POST /areas/positions/delete.
func (h *Handler) HandleDeletePositions(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpManageDirectory, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in deletePositionsRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	ids, err := httpjson.ParseIDs("ids", in.IDs)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Dir.DeletePositions(ctx, ids)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.PositionsDeleted(ctx, r, actor.UID, in.IDs, n)
	httpjson.OK(w, deletePositionsResponse{Deleted: n})
}
