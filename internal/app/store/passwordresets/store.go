// internal/app/store/passwordresets/store.go
package passwordresetstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the name of the password reset collection.
const Collection = "password_resets"

// DefaultExpiry is how long a reset link stays valid.
const DefaultExpiry = time.Hour

// ErrInvalidToken is returned when a token is unknown, expired or already used.
var ErrInvalidToken = errors.New("reset link is invalid or has expired")

// Reset is a pending password reset. Expired records are removed by the
// TTL index on expires_at.
type Reset struct {
	ID        primitive.ObjectID `bson:"_id"`
	AccountID primitive.ObjectID `bson:"account_id"`
	Token     string             `bson:"token"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
	UsedAt    *time.Time         `bson:"used_at,omitempty"`
}

// Store manages password reset tokens.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
	log    *zap.Logger
}

// New creates a Store. If expiry is 0 or negative, DefaultExpiry is used.
func New(db *mongo.Database, expiry time.Duration, log *zap.Logger) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{c: db.Collection(Collection), expiry: expiry, log: log}
}

// Expiry returns how long new tokens stay valid.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Create issues a fresh token for accountID. Earlier unused tokens for the
// same account are discarded so only the latest mail works.
func (s *Store) Create(ctx context.Context, accountID primitive.ObjectID) (string, error) {
	if _, err := s.c.DeleteMany(ctx, bson.M{"account_id": accountID, "used_at": bson.M{"$exists": false}}); err != nil {
		s.log.Warn("discard previous reset tokens failed", zap.String("account_id", accountID.Hex()), zap.Error(err))
	}

	now := time.Now().UTC()
	r := Reset{
		ID:        primitive.NewObjectID(),
		AccountID: accountID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		s.log.Error("insert reset token failed", zap.String("account_id", accountID.Hex()), zap.Error(err))
		return "", apperr.Backend("create reset token", err)
	}
	return r.Token, nil
}

// Consume marks token used and returns its account id. A token can be
// consumed once, and only before it expires.
func (s *Store) Consume(ctx context.Context, token string) (primitive.ObjectID, error) {
	if _, err := uuid.Parse(token); err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}

	now := time.Now().UTC()
	var r Reset
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"token":      token,
			"used_at":    bson.M{"$exists": false},
			"expires_at": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"used_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, ErrInvalidToken
	}
	if err != nil {
		s.log.Error("consume reset token failed", zap.Error(err))
		return primitive.NilObjectID, apperr.Backend("consume reset token", err)
	}
	return r.AccountID, nil
}
