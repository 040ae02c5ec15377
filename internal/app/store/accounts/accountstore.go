// internal/app/store/accounts/accountstore.go
package accountstore

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
	"go.uber.org/zap"
)

// Collection is the name of the identity accounts collection.
const Collection = "cuentas"

// Store persists identity accounts. Passwords arrive already hashed.
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

// Create inserts an account and returns it with its new uid.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (models.Account, error) {
	now := time.Now().UTC()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, apperr.ErrDuplicateEmail
		}
		s.log.Error("insert account failed", zap.Error(err))
		return models.Account{}, apperr.Backend("create account", err)
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id}, "get account")
}

// GetByEmail looks up an account by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)}, "get account by email")
}

// SetPassword replaces the password hash. When verified is true the email
// is marked verified too, since completing a reset proves mailbox control.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string, verified bool) error {
	set := bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()}
	if verified {
		set["email_verified"] = true
	}
	return s.update(ctx, id, set, "set password")
}

// SetEmail changes the sign-in email, keeping it in step with the directory.
func (s *Store) SetEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	return s.update(ctx, id, bson.M{"email": normalize.Email(email), "updated_at": time.Now().UTC()}, "set account email")
}

// SetDisabled blocks or unblocks sign-in for the account.
func (s *Store) SetDisabled(ctx context.Context, id primitive.ObjectID, disabled bool) error {
	return s.update(ctx, id, bson.M{"disabled": disabled, "updated_at": time.Now().UTC()}, "set account disabled")
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, set bson.M, op string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return apperr.ErrDuplicateEmail
		}
		s.log.Error(op+" failed", zap.String("uid", id.Hex()), zap.Error(err))
		return apperr.Backend(op, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("account")
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M, op string) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, apperr.NotFound("account")
	}
	if err != nil {
		s.log.Error(op+" failed", zap.Error(err))
		return models.Account{}, apperr.Backend(op, err)
	}
	return a, nil
}
