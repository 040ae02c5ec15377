// internal/app/store/positions/positionstore.go
package positionstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the name of the positions collection.
const Collection = "cargos"

// Input describes one position to create under an area.
type Input struct {
	Nombre string `json:"nombre" validate:"required,max=200"`
	Rol    string `json:"rol" validate:"required"`
}

// CreateResult reports which positions were written and which names were
// skipped because they already existed under the area (or repeated within
// the same request).
type CreateResult struct {
	Created []models.Position `json:"created"`
	Skipped []string          `json:"skipped"`
}

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

// List returns every position across all areas.
func (s *Store) List(ctx context.Context) ([]models.Position, error) {
	return s.find(ctx, bson.M{}, "list positions")
}

// ListByArea returns the positions that belong to areaID.
func (s *Store) ListByArea(ctx context.Context, areaID primitive.ObjectID) ([]models.Position, error) {
	return s.find(ctx, bson.M{"idAreaTrabajo": areaID}, "list positions by area")
}

// GetByIDs loads multiple positions by id. Unknown ids are simply absent
// from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Position, error) {
	if len(ids) == 0 {
		return []models.Position{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, "get positions")
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Position, error) {
	var p models.Position
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Position{}, apperr.NotFound("position")
	}
	if err != nil {
		s.log.Error("get position failed", zap.String("position_id", id.Hex()), zap.Error(err))
		return models.Position{}, apperr.Backend("get position", err)
	}
	return p, nil
}

// CreateMany inserts positions under areaID. A position whose folded name
// already exists under the area, or repeats an earlier entry of the same
// call, is skipped rather than rejected. Every role is validated before
// anything is written. The caller is responsible for checking that the
// area exists.
func (s *Store) CreateMany(ctx context.Context, areaID primitive.ObjectID, inputs []Input) (CreateResult, error) {
	res := CreateResult{Created: []models.Position{}, Skipped: []string{}}

	for _, in := range inputs {
		if normalize.Name(in.Nombre) == "" {
			return res, apperr.Invalid("nombre is required for every position")
		}
		if !models.IsValidRole(in.Rol) {
			return res, apperr.Invalid("rol must be one of Jefe, Empleado, Admin")
		}
	}

	existing, err := s.ListByArea(ctx, areaID)
	if err != nil {
		return res, err
	}
	seen := make(map[string]struct{}, len(existing)+len(inputs))
	for _, p := range existing {
		seen[p.NombreCI] = struct{}{}
	}

	now := time.Now().UTC()
	for _, in := range inputs {
		name := normalize.Name(in.Nombre)
		folded := normalize.Fold(name)
		if _, dup := seen[folded]; dup {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		seen[folded] = struct{}{}

		p := models.Position{
			ID:            primitive.NewObjectID(),
			Nombre:        name,
			NombreCI:      folded,
			IDAreaTrabajo: areaID,
			Rol:           in.Rol,
			CreatedAt:     now,
		}
		if _, err := s.c.InsertOne(ctx, p); err != nil {
			if wafflemongo.IsDup(err) {
				res.Skipped = append(res.Skipped, name)
				continue
			}
			s.log.Error("insert position failed",
				zap.String("area_id", areaID.Hex()),
				zap.String("nombre", name),
				zap.Error(err))
			return res, apperr.Backend("create positions", err)
		}
		res.Created = append(res.Created, p)
	}
	return res, nil
}

// DeleteMany removes the given positions and returns how many were deleted.
// Users still pointing at a deleted position resolve to the placeholder
// name on read.
func (s *Store) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		s.log.Error("delete positions failed", zap.Int("count", len(ids)), zap.Error(err))
		return 0, apperr.Backend("delete positions", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, op string) ([]models.Position, error) {
	opts := options.Find().SetSort(bson.D{{Key: "idAreaTrabajo", Value: 1}, {Key: "nombre_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		s.log.Error(op+" failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	defer cur.Close(ctx)

	out := []models.Position{}
	if err := cur.All(ctx, &out); err != nil {
		s.log.Error(op+" decode failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	return out, nil
}
