// internal/app/features/areas/list.go
package areas

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /areas.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	areas, err := h.Dir.ListAreas(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, areas)
}

// ServePositions handles GET /areas/positions. ?areaId= narrows the list
// to one area.
func (h *Handler) ServePositions(w http.ResponseWriter, r *http.Request) {
	var areaID primitive.ObjectID
	if raw := r.URL.Query().Get("areaId"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Invalid(w, "areaId no es válido", map[string]string{"areaId": "id inválido"})
			return
		}
		areaID = oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	positions, err := h.Dir.ListPositions(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !areaID.IsZero() {
		filtered := make([]models.Position, 0, len(positions))
		for _, p := range positions {
			if p.IDAreaTrabajo == areaID {
				filtered = append(filtered, p)
			}
		}
		positions = filtered
	}
	httpjson.OK(w, positions)
}
