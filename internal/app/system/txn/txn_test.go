package txn_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/workhub/internal/app/system/txn"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated", errors.New("connection reset by peer"), false},
		{"duplicate key", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key"}, false},
		{"standalone code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{"older server code 51", mongo.CommandError{Code: 51, Message: "illegal operation"}, true},
		{"code 263", mongo.CommandError{Code: 263, Message: "operation not supported in transaction"}, true},
		{"wrapped by a store", fmt.Errorf("delete assignment: %w", mongo.CommandError{Code: 20}), true},
		{"message names replica set", errors.New("Transaction requires a REPLICA SET"), true},
		{"message names session", errors.New("cannot continue transaction in this session"), true},
		{"sessions not supported", errors.New("sessions are not supported by this deployment"), true},
		{"transaction alone", errors.New("transaction aborted"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txn.IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// seedThread writes one assignment, one link on it and one comment on the
// link, the shape the assignment delete cascades over.
func seedThread(t *testing.T, ctx context.Context, db *mongo.Database) (assignmentID, linkID primitive.ObjectID) {
	t.Helper()
	assignmentID = primitive.NewObjectID()
	linkID = primitive.NewObjectID()
	if _, err := db.Collection("asignaciones").InsertOne(ctx, bson.M{"_id": assignmentID, "nombre": "Inventario"}); err != nil {
		t.Fatalf("insert assignment: %v", err)
	}
	if _, err := db.Collection("asignacionesXusuario").InsertOne(ctx, bson.M{"_id": linkID, "id_asignacion": assignmentID}); err != nil {
		t.Fatalf("insert link: %v", err)
	}
	if _, err := db.Collection("comentariosAsignaciones").InsertOne(ctx, bson.M{"id_asignacionXusuario": linkID, "contenido": "Listo"}); err != nil {
		t.Fatalf("insert comment: %v", err)
	}
	return assignmentID, linkID
}

func count(t *testing.T, ctx context.Context, db *mongo.Database, coll string, filter bson.M) int64 {
	t.Helper()
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("count %s: %v", coll, err)
	}
	return n
}

// Run commits the cascade whether or not the server supports transactions.
// On a standalone server the first attempt is refused before any write and
// the callback runs again directly, so nothing is applied twice.
func TestRun_Cascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	assignmentID, linkID := seedThread(t, ctx, db)
	markerID := primitive.NewObjectID()

	calls := 0
	err := txn.Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		calls++
		if _, err := db.Collection("comentariosAsignaciones").DeleteMany(ctx, bson.M{"id_asignacionXusuario": linkID}); err != nil {
			return err
		}
		if _, err := db.Collection("asignacionesXusuario").DeleteMany(ctx, bson.M{"id_asignacion": assignmentID}); err != nil {
			return err
		}
		if _, err := db.Collection("asignaciones").DeleteOne(ctx, bson.M{"_id": assignmentID}); err != nil {
			return err
		}
		// A fixed id fails on a second run if the first one leaked writes.
		_, err := db.Collection("auditoria").InsertOne(ctx, bson.M{"_id": markerID, "event": "assignment_deleted"})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls < 1 || calls > 2 {
		t.Errorf("callback ran %d times", calls)
	}

	if n := count(t, ctx, db, "asignaciones", bson.M{"_id": assignmentID}); n != 0 {
		t.Errorf("assignment still present")
	}
	if n := count(t, ctx, db, "asignacionesXusuario", bson.M{"id_asignacion": assignmentID}); n != 0 {
		t.Errorf("%d links still present", n)
	}
	if n := count(t, ctx, db, "comentariosAsignaciones", bson.M{"id_asignacionXusuario": linkID}); n != 0 {
		t.Errorf("%d comments still present", n)
	}
	if n := count(t, ctx, db, "auditoria", bson.M{"_id": markerID}); n != 1 {
		t.Errorf("marker written %d times", n)
	}
}

// An error from the callback comes back unchanged and is not retried.
func TestRun_CallbackError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	errStop := errors.New("link lookup failed")
	calls := 0
	err := txn.Run(ctx, db, nil, func(ctx context.Context) error {
		calls++
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("expected %v, got %v", errStop, err)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}
