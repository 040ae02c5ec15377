package userstore

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

// Collection is the name of the directory users collection.
const Collection = "usuarios"

// Update carries the mutable directory fields. Nil fields are left as is.
type Update struct {
	Nombre            *string
	CorreoElectronico *string
	AreaTrabajo       *primitive.ObjectID
	PuestoTrabajo     *primitive.ObjectID
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.Nombre == nil && u.CorreoElectronico == nil && u.AreaTrabajo == nil && u.PuestoTrabajo == nil
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

// List returns every raw directory record ordered by name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{}, "list users")
}

// GetByIDs loads multiple users. Unknown ids are absent from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, "get users")
}

// GetByID loads a user by uid.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id}, "get user")
}

// GetByEmail looks up a user by email, compared trimmed and lowercased.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"correoElectronico": normalize.Email(email)}, "get user by email")
}

// Create writes the directory record for an existing identity account.
// u.ID must already hold the account uid. New users start with
// PrimerInicioSesion set.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID.IsZero() {
		return models.User{}, apperr.Invalid("uid is required")
	}
	now := time.Now().UTC()
	u.Nombre = normalize.Name(u.Nombre)
	u.CorreoElectronico = normalize.Email(u.CorreoElectronico)
	u.PrimerInicioSesion = true
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.ErrDuplicateEmail
		}
		s.log.Error("insert user failed", zap.String("uid", u.ID.Hex()), zap.Error(err))
		return models.User{}, apperr.Backend("create user", err)
	}
	return u, nil
}

// Update applies a partial update. An unknown uid yields ErrNotFound.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Nombre != nil {
		set["nombre"] = normalize.Name(*upd.Nombre)
	}
	if upd.CorreoElectronico != nil {
		set["correoElectronico"] = normalize.Email(*upd.CorreoElectronico)
	}
	if upd.AreaTrabajo != nil {
		set["areaTrabajo"] = *upd.AreaTrabajo
	}
	if upd.PuestoTrabajo != nil {
		set["puestoTrabajo"] = *upd.PuestoTrabajo
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return apperr.ErrDuplicateEmail
		}
		s.log.Error("update user failed", zap.String("uid", id.Hex()), zap.Error(err))
		return apperr.Backend("update user", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// MarkFirstLoginDone clears the first-login flag after a verified sign-in.
func (s *Store) MarkFirstLoginDone(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"primerInicioSesion": false,
		"updated_at":         time.Now().UTC(),
	}})
	if err != nil {
		s.log.Error("mark first login failed", zap.String("uid", id.Hex()), zap.Error(err))
		return apperr.Backend("mark first login", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// EmailExistsForOther checks if the email belongs to a user other than excludeID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"correoElectronico": normalize.Email(email),
		"_id":               bson.M{"$ne": excludeID},
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		s.log.Error("email lookup failed", zap.Error(err))
		return false, apperr.Backend("check email", err)
	}
	return true, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M, op string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.NotFound("user")
	}
	if err != nil {
		s.log.Error(op+" failed", zap.Error(err))
		return models.User{}, apperr.Backend(op, err)
	}
	return u, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, op string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
	if err != nil {
		s.log.Error(op+" failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		s.log.Error(op+" decode failed", zap.Error(err))
		return nil, apperr.Backend(op, err)
	}
	return out, nil
}
