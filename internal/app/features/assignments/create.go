// internal/app/features/assignments/create.go
package assignments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	FechaInicio dateField `json:"fechaInicio"`
	FechaFin    dateField `json:"fechaFin"`
	Usuarios    []string  `json:"usuarios"`
}

// partialBody is returned when the assignment was written but some of its
// links were not. The id lets the client retry with POST .../assignees.
type partialBody struct {
	httpjson.ErrorBody
	ID string `json:"id"`
}

// HandleCreate handles POST /assignments. The caller becomes creadoPor and
// every listed user gets a "Sin Iniciar" link.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	if err := assignmentpolicy.Check(actor, assignmentpolicy.OpCreateAssignment, assignmentpolicy.Resource{}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	creator, err := actor.OID()
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	var in createRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	uids, err := httpjson.ParseIDs("usuarios", in.Usuarios)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.requireUsers(ctx, uids); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.Assignments.Create(ctx, models.Assignment{
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		FechaInicio: in.FechaInicio.In(h.Loc),
		FechaFin:    in.FechaFin.In(h.Loc),
		CreadoPor:   creator,
	}, uids)
	if err != nil && !errors.Is(err, apperr.ErrPartialCreate) {
		httpjson.Error(w, h.Log, err)
		return
	}

	// The assignment exists from here on, even after a partial failure.
	h.AuditLog.AssignmentCreated(ctx, r, actor.UID, a.ID.Hex(), a.Nombre, len(uids))
	h.Events.Publish(ctx, events.Event{
		Type:         events.AssignmentCreated,
		AssignmentID: a.ID.Hex(),
		ActorUID:     actor.UID,
		UIDs:         in.Usuarios,
		At:           time.Now().UTC(),
	})

	if err != nil {
		h.Log.Error("assignment created without all of its links",
			zap.String("assignment_id", a.ID.Hex()), zap.Error(err))
		httpjson.Write(w, http.StatusInternalServerError, partialBody{
			ErrorBody: httpjson.ErrorBody{
				Error: "La asignación se creó, pero no se pudo asignar a todos los usuarios.",
				Code:  "partial_create",
			},
			ID: a.ID.Hex(),
		})
		return
	}
	httpjson.Created(w, a)
}
