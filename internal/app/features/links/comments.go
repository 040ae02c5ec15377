// internal/app/features/links/comments.go
package links

import (
	"context"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/policy/assignmentpolicy"
	commentstore "github.com/dalemusser/workhub/internal/app/store/comments"
	"github.com/dalemusser/workhub/internal/app/store/queries/assignmentview"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/domain/models"
)

// ServeComments handles GET /links/{id}/comments, oldest first.
func (h *Handler) ServeComments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, ok := h.authorizedThread(ctx, w, r)
	if !ok {
		return
	}
	httpjson.OK(w, list)
}

// ServeCommentsByDate handles GET /links/{id}/comments/by-date.
func (h *Handler) ServeCommentsByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, ok := h.authorizedThread(ctx, w, r)
	if !ok {
		return
	}
	httpjson.OK(w, assignmentview.GroupByDate(list, h.View.Location()))
}

type addCommentRequest struct {
	Contenido string `json:"contenido"`
}

type addCommentResponse struct {
	Comentario models.Comment      `json:"comentario"`
	Dias       []models.CommentDay `json:"dias"`
}

// HandleAddComment handles POST /links/{id}/comments. The response carries
// the new comment and the whole thread grouped by day, so the client does
// not need a second request to redraw it.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var in addCommentRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	link, ok := h.authorizedLink(ctx, w, r, assignmentpolicy.OpComment)
	if !ok {
		return
	}
	actor, _ := assignmentpolicy.ActorFromRequest(r)
	author, err := actor.OID()
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	days, err := h.View.CommentsByDate(ctx, link.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	c, err := h.Comments.Create(ctx, commentstore.NewComment{
		LinkID:    link.ID,
		AuthorUID: author,
		Contenido: in.Contenido,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Events.Publish(ctx, events.Event{
		Type:         events.CommentAdded,
		AssignmentID: link.IDAsignacion.Hex(),
		LinkID:       link.ID.Hex(),
		CommentID:    c.ID.Hex(),
		ActorUID:     actor.UID,
		At:           c.FechaCreacion,
	})
	httpjson.Created(w, addCommentResponse{
		Comentario: c,
		Dias:       assignmentview.InsertComment(days, c, h.View.Location()),
	})
}
