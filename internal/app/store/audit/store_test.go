package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/workhub/internal/app/store/audit"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID().Hex()
	before := time.Now().Add(-time.Second)
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   actor,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
		Details:   map[string]string{"email": "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByActor(ctx, actor, 10)
	if err != nil {
		t.Fatalf("GetByActor failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if e.CreatedAt.Before(before) {
		t.Errorf("CreatedAt %v not set", e.CreatedAt)
	}
	if e.Details["email"] != "ana@example.com" {
		t.Errorf("details: got %v", e.Details)
	}
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID().Hex()
	target := primitive.NewObjectID().Hex()
	base := time.Now().UTC().Add(-time.Hour)
	seed := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, ActorID: actor, Success: true, CreatedAt: base},
		{Category: audit.CategoryAdmin, EventType: audit.EventAssignmentCreated, ActorID: actor, TargetID: target, Success: true, CreatedAt: base.Add(10 * time.Minute)},
		{Category: audit.CategoryAdmin, EventType: audit.EventAssignmentDeleted, ActorID: actor, TargetID: target, Success: true, CreatedAt: base.Add(20 * time.Minute)},
		{Category: audit.CategoryAdmin, EventType: audit.EventUserCreated, Success: true, CreatedAt: base.Add(30 * time.Minute)},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	start := base.Add(5 * time.Minute)
	end := base.Add(25 * time.Minute)
	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"all", audit.QueryFilter{}, 4},
		{"by actor", audit.QueryFilter{ActorID: actor}, 3},
		{"by target", audit.QueryFilter{TargetID: target}, 2},
		{"by category", audit.QueryFilter{Category: audit.CategoryAdmin}, 3},
		{"by event type", audit.QueryFilter{EventType: audit.EventAssignmentDeleted}, 1},
		{"by time range", audit.QueryFilter{StartTime: &start, EndTime: &end}, 2},
		{"limit", audit.QueryFilter{Limit: 2}, 2},
		{"offset", audit.QueryFilter{Offset: 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}

	// Newest first.
	events, _ := store.Query(ctx, audit.QueryFilter{})
	if events[0].EventType != audit.EventUserCreated {
		t.Errorf("first event = %q, want newest", events[0].EventType)
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	for _, age := range []time.Duration{48 * time.Hour, 36 * time.Hour, time.Hour} {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAdmin,
			EventType: audit.EventCommentDeleted,
			CreatedAt: now.Add(-age),
			Success:   true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	n, err := store.DeleteBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, err := store.Count(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if left != 1 {
		t.Errorf("remaining %d, want 1", left)
	}
}
