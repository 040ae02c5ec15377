// internal/app/features/assignments/handler.go
package assignments

import (
	"context"
	"fmt"
	"time"

	assignmentstore "github.com/dalemusser/workhub/internal/app/store/assignments"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/events"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the dependency container for the assignments feature.
// Read-side joins (mine, created) go straight to the database through the
// assignmentqueries package; writes go through the assignment store.
type Handler struct {
	DB          *mongo.Database
	Assignments *assignmentstore.Store
	Dir         *directory.Service
	Events      events.Publisher
	AuditLog    *auditlog.Logger
	Loc         *time.Location // zone plain YYYY-MM-DD dates are read in
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, dir *directory.Service, pub events.Publisher, audit *auditlog.Logger, loc *time.Location, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:          db,
		Assignments: assignmentstore.New(db, logger),
		Dir:         dir,
		Events:      pub,
		AuditLog:    audit,
		Loc:         loc,
		Log:         logger,
	}
}

// requireUsers fails unless every uid has a directory record, so no link
// can point at a user that does not exist.
func (h *Handler) requireUsers(ctx context.Context, uids []primitive.ObjectID) error {
	if len(uids) == 0 {
		return nil
	}
	found, err := h.Dir.GetUsers(ctx, uids)
	if err != nil {
		return err
	}
	for _, uid := range uids {
		if _, ok := found[uid]; !ok {
			return apperr.Invalid(fmt.Sprintf("usuario %s no existe", uid.Hex()))
		}
	}
	return nil
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
