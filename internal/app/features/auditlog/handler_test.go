package auditlog_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/workhub/internal/app/features/auditlog"
	"github.com/dalemusser/workhub/internal/app/store/audit"
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.uber.org/zap"
)

type listResponse struct {
	Events  []audit.Event `json:"events"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	HasNext bool          `json:"hasNext"`
}

func seed(t *testing.T, h *auditlog.Handler) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := func(s string) time.Time {
		d, _ := time.Parse(time.DateOnly, s)
		return d.Add(12 * time.Hour)
	}
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, ActorID: "a1", CreatedAt: day("2024-03-01"), Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, ActorID: "a2", CreatedAt: day("2024-03-02")},
		{Category: audit.CategoryAdmin, EventType: audit.EventCommentDeleted, ActorID: "a1", TargetID: "c1", CreatedAt: day("2024-03-03"), Success: true},
	}
	for _, e := range events {
		if err := h.Store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
}

func TestServeList_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())
	seed(t, h)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/", 3},
		{"category", "/?category=auth", 2},
		{"event type", "/?event_type=comment_deleted", 1},
		{"actor", "/?actor=a1", 2},
		{"target", "/?target=c1", 1},
		{"end date inclusive", "/?end_date=2024-03-02", 2},
		{"date window", "/?start_date=2024-03-02&end_date=2024-03-02", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest(t, "GET", tt.target, nil, testutil.AdminUser())
			rec := testutil.NewRecorder()
			h.ServeList(rec, req)

			rec.AssertStatus(t, http.StatusOK)
			var got listResponse
			rec.DecodeJSON(t, &got)
			if len(got.Events) != tt.want {
				t.Errorf("got %d events, want %d", len(got.Events), tt.want)
			}
		})
	}
}

func TestServeList_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())
	seed(t, h)

	req := testutil.NewAuthenticatedRequest(t, "GET", "/?limit=2", nil, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	var first listResponse
	rec.DecodeJSON(t, &first)
	if len(first.Events) != 2 || !first.HasNext {
		t.Fatalf("page 1: %d events, hasNext=%v", len(first.Events), first.HasNext)
	}
	// Newest first.
	if first.Events[0].EventType != audit.EventCommentDeleted {
		t.Errorf("first event = %q", first.Events[0].EventType)
	}

	req = testutil.NewAuthenticatedRequest(t, "GET", "/?limit=2&page=2", nil, testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.ServeList(rec, req)

	var second listResponse
	rec.DecodeJSON(t, &second)
	if len(second.Events) != 1 || second.HasNext {
		t.Errorf("page 2: %d events, hasNext=%v", len(second.Events), second.HasNext)
	}
}

func TestServeList_BadDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(t, "GET", "/?start_date=01-03-2024", nil, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestRoutes_AdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	router := auditlog.Routes(h, sm)

	tests := []struct {
		name   string
		user   *testutil.TestUser
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"empleado", ptr(testutil.EmpleadoUser()), http.StatusForbidden},
		{"jefe", ptr(testutil.JefeUser()), http.StatusForbidden},
		{"admin", ptr(testutil.AdminUser()), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "GET", "/", nil)
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.status)
		})
	}
}

func ptr[T any](v T) *T { return &v }
