package areas_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/workhub/internal/app/features/areas"
	positionstore "github.com/dalemusser/workhub/internal/app/store/positions"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/indexes"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*areas.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	dir := directory.NewService(db, dircache.Nop{}, nil, zap.NewNop())
	return areas.NewHandler(dir, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestHandleCreateArea(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		user   testutil.TestUser
		nombre string
		status int
	}{
		{"admin creates", testutil.AdminUser(), "Logística", http.StatusCreated},
		{"jefe creates", testutil.JefeUser(), "Finanzas", http.StatusCreated},
		{"accent-folded duplicate", testutil.AdminUser(), "  LOGISTICA ", http.StatusConflict},
		{"empty name", testutil.AdminUser(), "   ", http.StatusBadRequest},
		{"empleado forbidden", testutil.EmpleadoUser(), "Compras", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest(t, "POST", "/areas", map[string]string{"nombre": tt.nombre}, tt.user)
			rec := testutil.NewRecorder()
			h.HandleCreateArea(rec, req)
			rec.AssertStatus(t, tt.status)
		})
	}

	req := testutil.NewAuthenticatedRequest(t, "GET", "/areas", nil, testutil.EmpleadoUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Area
	rec.DecodeJSON(t, &list)
	if len(list) != 2 {
		t.Errorf("expected 2 areas, got %d", len(list))
	}
}

func TestHandleCreatePositions(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "Ventas")
	fx.CreatePosition(ctx, "Vendedor", area.ID, models.RoleEmpleado)
	other := fx.CreateArea(ctx, "Soporte")
	fx.CreatePosition(ctx, "Técnico", other.ID, models.RoleEmpleado)

	body := map[string]any{"puestos": []positionstore.Input{
		{Nombre: "Gerente de ventas", Rol: models.RoleJefe},
		{Nombre: "vendedor", Rol: models.RoleEmpleado},
		{Nombre: "Gerente de Ventas", Rol: models.RoleJefe},
	}}
	req := testutil.NewAuthenticatedRequest(t, "POST", "/areas/x/positions", body, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", area.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleCreatePositions(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var res positionstore.CreateResult
	rec.DecodeJSON(t, &res)
	if len(res.Created) != 1 || res.Created[0].Nombre != "Gerente de ventas" {
		t.Errorf("created = %+v", res.Created)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("skipped = %v, want 2 entries", res.Skipped)
	}

	// Filtered listing only returns the area's positions.
	req = testutil.NewAuthenticatedRequest(t, "GET", "/areas/positions?areaId="+area.ID.Hex(), nil, testutil.EmpleadoUser())
	rec = testutil.NewRecorder()
	h.ServePositions(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var positions []models.Position
	rec.DecodeJSON(t, &positions)
	if len(positions) != 2 {
		t.Errorf("expected 2 positions in area, got %d", len(positions))
	}
}

func TestHandleCreatePositions_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		id     string
		body   any
		status int
	}{
		{"unknown area", primitive.NewObjectID().Hex(), map[string]any{"puestos": []positionstore.Input{{Nombre: "X", Rol: models.RoleJefe}}}, http.StatusNotFound},
		{"bad id", "nope", map[string]any{"puestos": []positionstore.Input{{Nombre: "X", Rol: models.RoleJefe}}}, http.StatusBadRequest},
		{"no positions", primitive.NewObjectID().Hex(), map[string]any{"puestos": []positionstore.Input{}}, http.StatusBadRequest},
		{"unknown field", primitive.NewObjectID().Hex(), map[string]any{"cargos": []string{"X"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest(t, "POST", "/areas/x/positions", tt.body, testutil.AdminUser())
			req = testutil.WithChiURLParam(req, "id", tt.id)
			rec := testutil.NewRecorder()
			h.HandleCreatePositions(rec, req)
			rec.AssertStatus(t, tt.status)
		})
	}
}

func TestHandleDeletePositions(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "Ventas")
	p1 := fx.CreatePosition(ctx, "Vendedor", area.ID, models.RoleEmpleado)
	p2 := fx.CreatePosition(ctx, "Cajero", area.ID, models.RoleEmpleado)

	body := map[string][]string{"ids": {p1.ID.Hex(), p2.ID.Hex()}}

	req := testutil.NewAuthenticatedRequest(t, "POST", "/areas/positions/delete", body, testutil.EmpleadoUser())
	rec := testutil.NewRecorder()
	h.HandleDeletePositions(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewAuthenticatedRequest(t, "POST", "/areas/positions/delete", body, testutil.JefeUser())
	rec = testutil.NewRecorder()
	h.HandleDeletePositions(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"deleted":2`)
}
