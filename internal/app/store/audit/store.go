// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection holds audit events. Indexes are built by the indexes package.
const Collection = "audit_logs"

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLoginFirstLoginPending   = "login_first_login_pending"
	EventLogout                   = "logout"
	EventPasswordResetRequested   = "password_reset_requested"
	EventPasswordResetCompleted   = "password_reset_completed"
)

// Admin event types
const (
	EventUserCreated         = "user_created"
	EventUserUpdated         = "user_updated"
	EventAreaCreated         = "area_created"
	EventPositionsCreated    = "positions_created"
	EventPositionsDeleted    = "positions_deleted"
	EventAssignmentCreated   = "assignment_created"
	EventAssignmentUpdated   = "assignment_updated"
	EventAssignmentDeleted   = "assignment_deleted"
	EventAssigneesAdded      = "assignees_added"
	EventAssigneesRemoved    = "assignees_removed"
	EventLinkStatusChanged   = "link_status_changed"
	EventCommentDeleted      = "comment_deleted"
	EventFunctionUserCreated = "function_user_created"
)

// Event represents an audit event. ActorID and TargetID are user uids
// (hex ObjectIDs); TargetID may also name an assignment or area.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`

	ActorID  string `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	TargetID string `bson:"target_id,omitempty" json:"target_id,omitempty"`

	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	ActorID   string
	TargetID  string
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages audit event records.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

// New creates a new audit Store.
func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{c: db.Collection(Collection), log: log}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, event); err != nil {
		return apperr.Backend("insert audit event", err)
	}
	return nil
}

func (f QueryFilter) query() bson.M {
	query := bson.M{}
	if f.ActorID != "" {
		query["actor_id"] = f.ActorID
	}
	if f.TargetID != "" {
		query["target_id"] = f.TargetID
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.EventType != "" {
		query["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["created_at"] = timeQuery
	}
	return query
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, apperr.Backend("find audit events", err)
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, apperr.Backend("decode audit events", err)
	}
	return events, nil
}

// Count returns the number of events matching the filter.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	n, err := s.c.CountDocuments(ctx, filter.query())
	if err != nil {
		return 0, apperr.Backend("count audit events", err)
	}
	return n, nil
}

// GetByActor retrieves recent events performed by a user.
func (s *Store) GetByActor(ctx context.Context, actorID string, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{ActorID: actorID, Limit: limit})
}

// DeleteBefore removes events created before cutoff and returns how many
// were deleted.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, apperr.Backend("delete old audit events", err)
	}
	return res.DeletedCount, nil
}
