// internal/app/store/areas/areastore.go
package areastore

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

// Collection is the name of the areas collection.
const Collection = "areas"

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

// List returns every area ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Area, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nombre_ci", Value: 1}}))
	if err != nil {
		s.log.Error("list areas failed", zap.Error(err))
		return nil, apperr.Backend("list areas", err)
	}
	defer cur.Close(ctx)

	areas := []models.Area{}
	if err := cur.All(ctx, &areas); err != nil {
		s.log.Error("decode areas failed", zap.Error(err))
		return nil, apperr.Backend("list areas", err)
	}
	return areas, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Area, error) {
	var a models.Area
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Area{}, apperr.NotFound("area")
	}
	if err != nil {
		s.log.Error("get area failed", zap.String("area_id", id.Hex()), zap.Error(err))
		return models.Area{}, apperr.Backend("get area", err)
	}
	return a, nil
}

// Create inserts a new area. Names are compared after case and accent
// folding, so "Recursos Humanos" and "recursos humanos" collide and the
// second call returns ErrDuplicateName without writing anything.
func (s *Store) Create(ctx context.Context, name string) (models.Area, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Area{}, apperr.Invalid("nombre is required")
	}
	folded := normalize.FoldName(name)

	err := s.c.FindOne(ctx, bson.M{"nombre_ci": folded}).Err()
	if err == nil {
		return models.Area{}, apperr.ErrDuplicateName
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		s.log.Error("area duplicate check failed", zap.Error(err))
		return models.Area{}, apperr.Backend("create area", err)
	}

	a := models.Area{
		ID:        primitive.NewObjectID(),
		Nombre:    name,
		NombreCI:  folded,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		// Lost a race with a concurrent create; the unique index decides.
		if wafflemongo.IsDup(err) {
			return models.Area{}, apperr.ErrDuplicateName
		}
		s.log.Error("insert area failed", zap.Error(err))
		return models.Area{}, apperr.Backend("create area", err)
	}
	return a, nil
}
