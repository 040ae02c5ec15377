// Package assignmentview builds the denormalized read models for one
// user's view of an assignment: the SelectedAssignmentView and the comment
// thread grouped by calendar date.
package assignmentview

import (
	"context"
	"errors"
	"sort"
	"time"

	assignmentstore "github.com/dalemusser/workhub/internal/app/store/assignments"
	assignmentuserstore "github.com/dalemusser/workhub/internal/app/store/assignmentusers"
	commentstore "github.com/dalemusser/workhub/internal/app/store/comments"
	userstore "github.com/dalemusser/workhub/internal/app/store/users"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/localize"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SnapshotSource supplies the directory snapshot used to name positions.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*dircache.Snapshot, error)
}

// Builder assembles views in the configured display time zone.
type Builder struct {
	links       *assignmentuserstore.Store
	assignments *assignmentstore.Store
	users       *userstore.Store
	comments    *commentstore.Store
	dir         SnapshotSource
	loc         *time.Location
	log         *zap.Logger
}

// New returns a Builder. A nil loc renders dates in UTC.
func New(db *mongo.Database, dir SnapshotSource, loc *time.Location, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{
		links:       assignmentuserstore.New(db, log),
		assignments: assignmentstore.New(db, log),
		users:       userstore.New(db, log),
		comments:    commentstore.New(db, log),
		dir:         dir,
		loc:         loc,
		log:         log,
	}
}

// Location is the zone dates are rendered in.
func (b *Builder) Location() *time.Location { return b.loc }

// SelectedAssignment builds the view of link linkID. A missing link or
// assignment is ErrNotFound; users that cannot be loaded degrade to the
// placeholder strings. The assignee uid is always the link's uid.
func (b *Builder) SelectedAssignment(ctx context.Context, linkID primitive.ObjectID) (models.SelectedAssignmentView, error) {
	link, err := b.links.GetByID(ctx, linkID)
	if err != nil {
		return models.SelectedAssignmentView{}, err
	}
	return b.ForLink(ctx, link)
}

// ForLink is SelectedAssignment for a link the caller already loaded.
func (b *Builder) ForLink(ctx context.Context, link models.AssignmentUser) (models.SelectedAssignmentView, error) {
	a, err := b.assignments.GetByID(ctx, link.IDAsignacion)
	if err != nil {
		return models.SelectedAssignmentView{}, err
	}

	snap, err := b.dir.Snapshot(ctx)
	if err != nil {
		return models.SelectedAssignmentView{}, err
	}
	creator, creatorOK := b.user(ctx, a.CreadoPor)
	assignee, assigneeOK := b.user(ctx, link.UID)

	v := models.SelectedAssignmentView{
		IDAsignacion:          a.ID,
		NombreAsignacion:      a.Nombre,
		DescripcionAsignacion: a.Descripcion,
		FechaInicio:           localize.ShortDate(a.FechaInicio, b.loc),
		FechaFin:              localize.ShortDate(a.FechaFin, b.loc),
		IDAsignacionUsuario:   link.ID,
		Estado:                link.Estado,
		CreadoPor: models.ViewCreator{
			NombreUsuario:     models.UserNotFound,
			UID:               a.CreadoPor,
			CorreoElectronico: models.EmailNotFound,
			Cargo:             models.PositionNotFound,
		},
		UsuarioAsignado: models.ViewAssignee{
			NombreUsuario:     models.UserNotFound,
			UID:               link.UID,
			CorreoElectronico: models.EmailNotFound,
			Puesto:            models.PositionNotFound,
		},
	}
	if creatorOK {
		v.CreadoPor.NombreUsuario = creator.Nombre
		v.CreadoPor.CorreoElectronico = creator.CorreoElectronico
		v.CreadoPor.Cargo = snap.PositionName(creator.PuestoTrabajo)
	}
	if assigneeOK {
		v.UsuarioAsignado.NombreUsuario = assignee.Nombre
		v.UsuarioAsignado.CorreoElectronico = assignee.CorreoElectronico
		v.UsuarioAsignado.Puesto = snap.PositionName(assignee.PuestoTrabajo)
	}
	return v, nil
}

func (b *Builder) user(ctx context.Context, uid primitive.ObjectID) (models.User, bool) {
	u, err := b.users.GetByID(ctx, uid)
	if err == nil {
		return u, true
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		b.log.Warn("user lookup failed while building assignment view", zap.String("uid", uid.Hex()), zap.Error(err))
	}
	return models.User{}, false
}

// CommentsByDate fetches the thread of linkID and groups it by day.
func (b *Builder) CommentsByDate(ctx context.Context, linkID primitive.ObjectID) ([]models.CommentDay, error) {
	comments, err := b.comments.ListByLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return GroupByDate(comments, b.loc), nil
}

// GroupByDate buckets comments by their Spanish long date in loc. Buckets
// appear in order of first occurrence in comments; entries within a bucket
// are ordered by their HH:MM time.
func GroupByDate(comments []models.Comment, loc *time.Location) []models.CommentDay {
	days := []models.CommentDay{}
	index := map[string]int{}
	for _, c := range comments {
		fecha := localize.LongDate(c.FechaCreacion, loc)
		i, ok := index[fecha]
		if !ok {
			i = len(days)
			index[fecha] = i
			days = append(days, models.CommentDay{Fecha: fecha, Comentarios: []models.CommentEntry{}})
		}
		days[i].Comentarios = append(days[i].Comentarios, entry(c, loc))
	}
	for i := range days {
		sortEntries(days[i].Comentarios)
	}
	return days
}

// InsertComment returns days with c added to its date bucket (re-sorted),
// or to a new trailing bucket when no bucket has that date. days is not
// modified.
func InsertComment(days []models.CommentDay, c models.Comment, loc *time.Location) []models.CommentDay {
	fecha := localize.LongDate(c.FechaCreacion, loc)
	out := make([]models.CommentDay, len(days))
	copy(out, days)
	for i := range out {
		if out[i].Fecha != fecha {
			continue
		}
		entries := make([]models.CommentEntry, 0, len(out[i].Comentarios)+1)
		entries = append(entries, out[i].Comentarios...)
		entries = append(entries, entry(c, loc))
		sortEntries(entries)
		out[i].Comentarios = entries
		return out
	}
	return append(out, models.CommentDay{Fecha: fecha, Comentarios: []models.CommentEntry{entry(c, loc)}})
}

func entry(c models.Comment, loc *time.Location) models.CommentEntry {
	return models.CommentEntry{
		Contenido:  c.Contenido,
		UIDUsuario: c.UIDUsuario,
		Hora:       localize.Clock(c.FechaCreacion, loc),
		ID:         c.ID,
	}
}

// sortEntries orders by zero-padded HH:MM, which sorts lexically.
func sortEntries(es []models.CommentEntry) {
	sort.SliceStable(es, func(i, j int) bool { return es[i].Hora < es[j].Hora })
}
