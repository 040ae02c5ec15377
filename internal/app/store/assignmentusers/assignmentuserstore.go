// internal/app/store/assignmentusers/assignmentuserstore.go
package assignmentuserstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the name of the Assignment-User link collection.
const Collection = "asignacionesXusuario"

// Store manages Assignment-User links. A link is the unit that carries
// the per-user estado and anchors that user's comment thread.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{c: db.Collection(Collection), log: log}
}

// CreateForUsers creates one "Sin Iniciar" link per user for assignmentID.
// Users that already hold a link for the assignment, and repeats within
// uids, are skipped. It returns the links it created.
func (s *Store) CreateForUsers(ctx context.Context, assignmentID primitive.ObjectID, uids []primitive.ObjectID) ([]models.AssignmentUser, error) {
	created := []models.AssignmentUser{}
	uids = dedupe(uids)
	if len(uids) == 0 {
		return created, nil
	}

	existing, err := s.find(ctx, bson.M{"id_asignacion": assignmentID, "uid": bson.M{"$in": uids}}, "list existing links")
	if err != nil {
		return created, err
	}
	has := make(map[primitive.ObjectID]struct{}, len(existing))
	for _, l := range existing {
		has[l.UID] = struct{}{}
	}

	now := time.Now().UTC()
	for _, uid := range uids {
		if _, ok := has[uid]; ok {
			continue
		}
		l := models.AssignmentUser{
			ID:           primitive.NewObjectID(),
			UID:          uid,
			IDAsignacion: assignmentID,
			Estado:       models.EstadoSinIniciar,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := s.c.InsertOne(ctx, l); err != nil {
			// A concurrent request created the same link; the unique index keeps one.
			if wafflemongo.IsDup(err) {
				continue
			}
			s.log.Error("insert link failed",
				zap.String("assignment_id", assignmentID.Hex()),
				zap.String("uid", uid.Hex()),
				zap.Error(err))
			return created, apperr.Backend("create links", err)
		}
		created = append(created, l)
	}
	return created, nil
}

// GetByID loads one link.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.AssignmentUser, error) {
	var l models.AssignmentUser
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AssignmentUser{}, apperr.NotFound("assignment link")
	}
	if err != nil {
		s.log.Error("get link failed", zap.String("link_id", id.Hex()), zap.Error(err))
		return models.AssignmentUser{}, apperr.Backend("get link", err)
	}
	return l, nil
}

// Exists reports whether a link with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		s.log.Error("link exists check failed", zap.String("link_id", id.Hex()), zap.Error(err))
		return false, apperr.Backend("check link", err)
	}
	return true, nil
}

// ListByAssignment returns every link of one assignment.
func (s *Store) ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]models.AssignmentUser, error) {
	return s.find(ctx, bson.M{"id_asignacion": assignmentID}, "list links by assignment")
}

// ListByAssignments returns the links of several assignments.
func (s *Store) ListByAssignments(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]models.AssignmentUser, error) {
	if len(assignmentIDs) == 0 {
		return []models.AssignmentUser{}, nil
	}
	return s.find(ctx, bson.M{"id_asignacion": bson.M{"$in": assignmentIDs}}, "list links by assignments")
}

// ListByUser returns every link held by uid.
func (s *Store) ListByUser(ctx context.Context, uid primitive.ObjectID) ([]models.AssignmentUser, error) {
	return s.find(ctx, bson.M{"uid": uid}, "list links by user")
}

// ListAssignees returns (uid, link id) pairs for an assignment.
func (s *Store) ListAssignees(ctx context.Context, assignmentID primitive.ObjectID) ([]models.AssigneeRef, error) {
	links, err := s.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	out := make([]models.AssigneeRef, 0, len(links))
	for _, l := range links {
		out = append(out, models.AssigneeRef{UID: l.UID, IDAsignacionXUsuario: l.ID})
	}
	return out, nil
}

// UpdateEstado sets the lifecycle state of a link. Any transition between
// the three states is accepted; other values are rejected.
func (s *Store) UpdateEstado(ctx context.Context, id primitive.ObjectID, estado string) error {
	if !models.IsValidEstado(estado) {
		return apperr.Invalid("estado must be one of Sin Iniciar, En Proceso, Terminada")
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"estado":     estado,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		s.log.Error("update estado failed", zap.String("link_id", id.Hex()), zap.Error(err))
		return apperr.Backend("update estado", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("assignment link")
	}
	return nil
}

// DeleteByUsers removes the links of uids on assignmentID. Comments on
// those links are left in place.
func (s *Store) DeleteByUsers(ctx context.Context, assignmentID primitive.ObjectID, uids []primitive.ObjectID) (int64, error) {
	if len(uids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"id_asignacion": assignmentID, "uid": bson.M{"$in": uids}})
	if err != nil {
		s.log.Error("delete links failed", zap.String("assignment_id", assignmentID.Hex()), zap.Error(err))
		return 0, apperr.Backend("remove assignees", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, op string) ([]models.AssignmentUser, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		s.log.Error(op+" failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	defer cur.Close(ctx)

	out := []models.AssignmentUser{}
	if err := cur.All(ctx, &out); err != nil {
		s.log.Error(op+" decode failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	return out, nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
