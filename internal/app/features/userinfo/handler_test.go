package userinfo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/workhub/internal/app/features/userinfo"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*userinfo.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	dir := directory.NewService(db, dircache.Nop{}, nil, zap.NewNop())
	return userinfo.NewHandler(dir, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeMe(t *testing.T) {
	handler, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateJefe(ctx, "Laura Gómez", "laura@example.com")
	req := testutil.NewAuthenticatedRequest(t, "GET", "/me", nil, testutil.AsTestUser(u, models.RoleJefe))
	rec := testutil.NewRecorder()

	handler.ServeMe(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var got models.ResolvedUser
	rec.DecodeJSON(t, &got)
	if got.UID != u.ID || got.Nombre != "Laura Gómez" {
		t.Errorf("user = %+v", got)
	}
	if got.Rol != models.RoleJefe || got.PuestoTrabajo == models.PositionNotFound {
		t.Errorf("position not resolved: %+v", got)
	}
}

func TestServeMe_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	handler.ServeMe(rec, httptest.NewRequest("GET", "/me", nil))

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeMe_DirectoryRecordGone(t *testing.T) {
	handler, _ := newTestHandler(t)

	ghost := testutil.EmpleadoUser()
	ghost.ID = primitive.NewObjectID().Hex()
	rec := testutil.NewRecorder()
	handler.ServeMe(rec, testutil.NewAuthenticatedRequest(t, "GET", "/me", nil, ghost))

	rec.AssertStatus(t, http.StatusNotFound)
}
