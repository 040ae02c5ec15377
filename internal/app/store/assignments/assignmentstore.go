// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	assignmentuserstore "github.com/dalemusser/workhub/internal/app/store/assignmentusers"
	commentstore "github.com/dalemusser/workhub/internal/app/store/comments"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/txn"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the name of the assignments collection.
const Collection = "asignaciones"

// Store manages assignments together with their Assignment-User links.
type Store struct {
	db    *mongo.Database
	c     *mongo.Collection
	links *assignmentuserstore.Store
	log   *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		db:    db,
		c:     db.Collection(Collection),
		links: assignmentuserstore.New(db, log),
		log:   log,
	}
}

// Create writes the assignment and then one "Sin Iniciar" link per user.
// The two steps are not atomic: if the links fail the assignment stays and
// the returned error wraps ErrPartialCreate. The returned Assignment is
// valid whenever its ID is set.
func (s *Store) Create(ctx context.Context, a models.Assignment, uids []primitive.ObjectID) (models.Assignment, error) {
	a.Nombre = strings.TrimSpace(a.Nombre)
	a.Descripcion = strings.TrimSpace(a.Descripcion)
	if err := validate(a.Nombre, a.FechaInicio, a.FechaFin); err != nil {
		return models.Assignment{}, err
	}
	if a.CreadoPor.IsZero() {
		return models.Assignment{}, apperr.Invalid("creadoPor is required")
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.IDAsignacionesXUsuario = nil
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		s.log.Error("insert assignment failed", zap.Error(err))
		return models.Assignment{}, apperr.Backend("create assignment", err)
	}

	if _, err := s.links.CreateForUsers(ctx, a.ID, uids); err != nil {
		s.log.Error("assignment created without all links",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Int("requested", len(uids)),
			zap.Error(err))
		return a, fmt.Errorf("%w (assignment %s): %w", apperr.ErrPartialCreate, a.ID.Hex(), err)
	}
	return a, nil
}

// AddUsers links additional users to an existing assignment, skipping
// users that are already linked.
func (s *Store) AddUsers(ctx context.Context, id primitive.ObjectID, uids []primitive.ObjectID) ([]models.AssignmentUser, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.links.CreateForUsers(ctx, id, uids)
}

// RemoveUsers deletes the links of uids on the assignment. Their comments
// are kept and remain reachable by link id.
func (s *Store) RemoveUsers(ctx context.Context, uids []primitive.ObjectID, id primitive.ObjectID) (int64, error) {
	return s.links.DeleteByUsers(ctx, id, uids)
}

// ListAssignees returns (uid, link id) pairs for the assignment.
func (s *Store) ListAssignees(ctx context.Context, id primitive.ObjectID) ([]models.AssigneeRef, error) {
	return s.links.ListAssignees(ctx, id)
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Assignment{}, apperr.NotFound("assignment")
	}
	if err != nil {
		s.log.Error("get assignment failed", zap.String("assignment_id", id.Hex()), zap.Error(err))
		return models.Assignment{}, apperr.Backend("get assignment", err)
	}
	return a, nil
}

// GetByIDs loads several assignments. Unknown ids are absent.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Assignment, error) {
	if len(ids) == 0 {
		return []models.Assignment{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, "get assignments")
}

// List returns every assignment, newest first.
func (s *Store) List(ctx context.Context) ([]models.Assignment, error) {
	return s.find(ctx, bson.M{}, "list assignments")
}

// ListByCreator returns the assignments created by uid, newest first.
func (s *Store) ListByCreator(ctx context.Context, uid primitive.ObjectID) ([]models.Assignment, error) {
	return s.find(ctx, bson.M{"creadoPor": uid}, "list assignments by creator")
}

// Update applies a partial update and returns the stored result.
// The date order rule is checked against the merged document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd models.AssignmentUpdate) (models.Assignment, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if upd.Nombre != nil {
		cur.Nombre = strings.TrimSpace(*upd.Nombre)
		set["nombre"] = cur.Nombre
	}
	if upd.Descripcion != nil {
		cur.Descripcion = strings.TrimSpace(*upd.Descripcion)
		set["descripcion"] = cur.Descripcion
	}
	switch {
	case upd.ClearFechaInicio:
		cur.FechaInicio = nil
		unset["fechaInicio"] = ""
	case upd.FechaInicio != nil:
		cur.FechaInicio = upd.FechaInicio
		set["fechaInicio"] = *upd.FechaInicio
	}
	switch {
	case upd.ClearFechaFin:
		cur.FechaFin = nil
		unset["fechaFin"] = ""
	case upd.FechaFin != nil:
		cur.FechaFin = upd.FechaFin
		set["fechaFin"] = *upd.FechaFin
	}

	if err := validate(cur.Nombre, cur.FechaInicio, cur.FechaFin); err != nil {
		return models.Assignment{}, err
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	var out models.Assignment
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Assignment{}, apperr.NotFound("assignment")
	}
	if err != nil {
		s.log.Error("update assignment failed", zap.String("assignment_id", id.Hex()), zap.Error(err))
		return models.Assignment{}, apperr.Backend("update assignment", err)
	}
	return out, nil
}

// Delete removes an assignment, all of its links and every comment on
// those links. On servers with transactions this is all-or-nothing. Without
// them the deletes run children first, so a failure part-way never leaves
// a link or comment pointing at a missing parent.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	links := s.db.Collection(assignmentuserstore.Collection)
	comments := s.db.Collection(commentstore.Collection)

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var linkIDs []primitive.ObjectID
		cur, err := links.Find(ctx, bson.M{"id_asignacion": id}, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return err
		}
		var rows []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.All(ctx, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			linkIDs = append(linkIDs, r.ID)
		}

		if len(linkIDs) > 0 {
			if _, err := comments.DeleteMany(ctx, bson.M{"id_asignacionXusuario": bson.M{"$in": linkIDs}}); err != nil {
				return err
			}
			if _, err := links.DeleteMany(ctx, bson.M{"id_asignacion": id}); err != nil {
				return err
			}
		}
		_, err = s.c.DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	if err != nil {
		s.log.Error("delete assignment failed", zap.String("assignment_id", id.Hex()), zap.Error(err))
		return apperr.Backend("delete assignment", err)
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M, op string) ([]models.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		s.log.Error(op+" failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	defer cur.Close(ctx)

	out := []models.Assignment{}
	if err := cur.All(ctx, &out); err != nil {
		s.log.Error(op+" decode failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	return out, nil
}

func validate(nombre string, inicio, fin *time.Time) error {
	if nombre == "" {
		return apperr.Invalid("nombre is required")
	}
	if inicio != nil && fin != nil && fin.Before(*inicio) {
		return apperr.Invalid("fechaFin must not be before fechaInicio")
	}
	return nil
}
