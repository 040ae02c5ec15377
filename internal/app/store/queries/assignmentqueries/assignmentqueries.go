// Package assignmentqueries holds the cross-collection assignment reads:
// one user's assignments and a creator's assignments with their assignees.
package assignmentqueries

import (
	"context"
	"sort"

	assignmentstore "github.com/dalemusser/workhub/internal/app/store/assignments"
	assignmentuserstore "github.com/dalemusser/workhub/internal/app/store/assignmentusers"
	userstore "github.com/dalemusser/workhub/internal/app/store/users"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userAssignmentRow struct {
	LinkID     primitive.ObjectID `bson:"_id"`
	Asignacion models.Assignment  `bson:"asignacion"`
}

// ListForUser returns the assignments uid is linked to, newest first, each
// carrying the id of uid's link in IDAsignacionesXUsuario. Links whose
// assignment no longer exists are left out.
func ListForUser(ctx context.Context, db *mongo.Database, uid primitive.ObjectID) ([]models.Assignment, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"uid": uid}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         assignmentstore.Collection,
			"localField":   "id_asignacion",
			"foreignField": "_id",
			"as":           "asignacion",
		}}},
		bson.D{{Key: "$unwind", Value: "$asignacion"}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "asignacion.created_at", Value: -1},
			{Key: "asignacion._id", Value: -1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"asignacion": 1}}},
	}

	cur, err := db.Collection(assignmentuserstore.Collection).Aggregate(ctx, pipe)
	if err != nil {
		return nil, apperr.Backend("list assignments for user", err)
	}
	defer cur.Close(ctx)

	var rows []userAssignmentRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperr.Backend("decode assignments for user", err)
	}

	out := make([]models.Assignment, 0, len(rows))
	for _, row := range rows {
		a := row.Asignacion
		linkID := row.LinkID
		a.IDAsignacionesXUsuario = &linkID
		out = append(out, a)
	}
	return out, nil
}

// ListCreatedByWithAssignees returns every assignment creatorUID created,
// newest first, with each assignee's directory info and link estado.
// Users or directory entries that cannot be resolved degrade to the
// placeholder strings.
func ListCreatedByWithAssignees(ctx context.Context, db *mongo.Database, snap *dircache.Snapshot, creatorUID primitive.ObjectID) ([]models.AssignmentWithAssignees, error) {
	assignments, err := assignmentstore.New(db, nil).ListByCreator(ctx, creatorUID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []models.AssignmentWithAssignees{}, nil
	}

	ids := make([]primitive.ObjectID, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}
	links, err := assignmentuserstore.New(db, nil).ListByAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}

	uidSet := make(map[primitive.ObjectID]struct{}, len(links))
	for _, l := range links {
		uidSet[l.UID] = struct{}{}
	}
	uids := make([]primitive.ObjectID, 0, len(uidSet))
	for id := range uidSet {
		uids = append(uids, id)
	}
	users, err := userstore.New(db, nil).GetByIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	byUID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byUID[u.ID] = u
	}

	byAssignment := make(map[primitive.ObjectID][]models.Assignee, len(assignments))
	for _, l := range links {
		byAssignment[l.IDAsignacion] = append(byAssignment[l.IDAsignacion], assignee(snap, l, byUID))
	}

	out := make([]models.AssignmentWithAssignees, 0, len(assignments))
	for _, a := range assignments {
		list := byAssignment[a.ID]
		if list == nil {
			list = []models.Assignee{}
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
		out = append(out, models.AssignmentWithAssignees{Asignacion: a, Usuarios: list})
	}
	return out, nil
}

func assignee(snap *dircache.Snapshot, l models.AssignmentUser, users map[primitive.ObjectID]models.User) models.Assignee {
	out := models.Assignee{
		IDAsignacionesXUsuario: l.ID,
		UID:                    l.UID,
		Estado:                 l.Estado,
	}
	u, ok := users[l.UID]
	if !ok {
		out.Nombre = models.UserNotFound
		out.CorreoElectronico = models.EmailNotFound
		out.AreaTrabajo = models.AreaNotFound
		out.PuestoTrabajo = models.PositionNotFound
		return out
	}
	r := snap.Resolve(u)
	out.Nombre = r.Nombre
	out.CorreoElectronico = r.CorreoElectronico
	out.AreaTrabajo = r.AreaTrabajo
	out.PuestoTrabajo = r.PuestoTrabajo
	return out
}
