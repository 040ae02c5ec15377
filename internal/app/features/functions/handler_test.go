package functions_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/workhub/internal/app/features/functions"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/identity"
	"github.com/dalemusser/workhub/internal/app/system/indexes"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/dalemusser/workhub/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const secret = "functions-secret-for-tests"

func sign(t *testing.T, key string, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "provisioning"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestAddUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	idp := identity.NewLocal(db, nil, identity.Config{}, zap.NewNop())
	dir := directory.NewService(db, dircache.Nop{}, idp, zap.NewNop())
	router := functions.Routes(functions.NewHandler(dir, secret, nil, zap.NewNop()))

	fx := testutil.NewFixtures(t, db)
	area := fx.CreateArea(ctx, "Soporte")
	pos := fx.CreatePosition(ctx, "Técnico", area.ID, models.RoleEmpleado)
	body := map[string]string{
		"email":    "tec@example.com",
		"password": "Cl4ve-Segura",
		"nombre":   "Técnico Uno",
		"areaId":   area.ID.Hex(),
		"puestoId": pos.ID.Hex(),
	}

	valid := sign(t, secret, jwt.SigningMethodHS256, time.Now().Add(time.Minute))
	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"wrong key", sign(t, "other", jwt.SigningMethodHS256, time.Now().Add(time.Minute)), http.StatusUnauthorized},
		{"wrong algorithm", sign(t, secret, jwt.SigningMethodHS512, time.Now().Add(time.Minute)), http.StatusUnauthorized},
		{"expired", sign(t, secret, jwt.SigningMethodHS256, time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"no expiry", sign(t, secret, jwt.SigningMethodHS256, time.Time{}), http.StatusUnauthorized},
		{"valid", valid, http.StatusCreated},
		{"valid again is a duplicate", valid, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/addUser", body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.status)
		})
	}

	u, err := dir.GetUserByEmail(ctx, "tec@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if !u.PrimerInicioSesion || u.Nombre != "Técnico Uno" {
		t.Errorf("user = %+v", u)
	}
}

func TestAddUser_Disabled(t *testing.T) {
	router := functions.Routes(functions.NewHandler(nil, "", nil, zap.NewNop()))

	req := testutil.NewJSONRequest(t, "POST", "/addUser", map[string]string{"email": "x@example.com"})
	req.Header.Set("Authorization", "Bearer whatever")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusServiceUnavailable)
}
