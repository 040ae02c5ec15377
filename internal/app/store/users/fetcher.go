package userstore

import (
	"context"

	accountstore "github.com/dalemusser/workhub/internal/app/store/accounts"
	positionstore "github.com/dalemusser/workhub/internal/app/store/positions"
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// The role comes from the user's current position.
type Fetcher struct {
	users     *Store
	positions *positionstore.Store
	accounts  *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, log *zap.Logger) *Fetcher {
	return &Fetcher{
		users:     New(db, log),
		positions: positionstore.New(db, log),
		accounts:  db.Collection(accountstore.Collection),
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found,
// their account is disabled, or any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.users.GetByID(ctx, oid)
	if err != nil {
		return nil
	}

	var acct struct {
		Disabled bool `bson:"disabled"`
	}
	if err := f.accounts.FindOne(ctx, bson.M{"_id": oid}).Decode(&acct); err == nil && acct.Disabled {
		return nil
	}

	su := &auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.Nombre,
		LoginID: u.CorreoElectronico,
	}
	// A user whose position was deleted keeps a session but holds no role,
	// so every role-gated route refuses them.
	if p, err := f.positions.GetByID(ctx, u.PuestoTrabajo); err == nil {
		su.Role = p.Rol
	}
	return su
}
