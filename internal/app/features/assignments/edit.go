// internal/app/features/assignments/edit.go
package assignments

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/domain/models"
)

type updateRequest struct {
	Nombre      *string   `json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	FechaInicio dateField `json:"fechaInicio"`
	FechaFin    dateField `json:"fechaFin"`
}

func (in updateRequest) toUpdate(loc *time.Location) (models.AssignmentUpdate, []string) {
	var upd models.AssignmentUpdate
	var fields []string
	if in.Nombre != nil {
		upd.Nombre = in.Nombre
		fields = append(fields, "nombre")
	}
	if in.Descripcion != nil {
		upd.Descripcion = in.Descripcion
		fields = append(fields, "descripcion")
	}
	if in.FechaInicio.Set {
		upd.FechaInicio = in.FechaInicio.In(loc)
		upd.ClearFechaInicio = in.FechaInicio.cleared()
		fields = append(fields, "fechaInicio")
	}
	if in.FechaFin.Set {
		upd.FechaFin = in.FechaFin.In(loc)
		upd.ClearFechaFin = in.FechaFin.cleared()
		fields = append(fields, "fechaFin")
	}
	return upd, fields
}

// HandleUpdate handles PATCH /assignments/{id}. A date sent as null or ""
// is cleared.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpUpdateAssignment, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
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
	upd, fields := in.toUpdate(h.Loc)
	if len(fields) == 0 {
		httpjson.Invalid(w, "No hay cambios para guardar.", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Assignments.Update(ctx, id, upd)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.AssignmentUpdated(ctx, r, actor.UID, id.Hex(), strings.Join(fields, ","))
	httpjson.OK(w, a)
}

// HandleDelete handles DELETE /assignments/{id}. The assignment, its links
// and the comments on those links go together.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpDeleteAssignment, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	id, err := httpjson.IDParam(r, "id")
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	a, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := h.Assignments.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.AssignmentDeleted(ctx, r, actor.UID, id.Hex(), a.Nombre)
	h.Events.Publish(ctx, events.Event{
		Type:         events.AssignmentDeleted,
		AssignmentID: id.Hex(),
		ActorUID:     actor.UID,
		At:           time.Now().UTC(),
	})
	httpjson.NoContent(w)
}
