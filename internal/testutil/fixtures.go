package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data directly in the
// collections, bypassing store validation.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateArea inserts an area with the given name.
func (f *Fixtures) CreateArea(ctx context.Context, name string) models.Area {
	f.t.Helper()

	area := models.Area{
		ID:        primitive.NewObjectID(),
		Nombre:    name,
		NombreCI:  normalize.FoldName(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("areas").InsertOne(ctx, area); err != nil {
		f.t.Fatalf("failed to create test area: %v", err)
	}
	return area
}

// CreatePosition inserts a position under areaID with the given role.
func (f *Fixtures) CreatePosition(ctx context.Context, name string, areaID primitive.ObjectID, rol string) models.Position {
	f.t.Helper()

	pos := models.Position{
		ID:            primitive.NewObjectID(),
		Nombre:        name,
		NombreCI:      normalize.FoldName(name),
		IDAreaTrabajo: areaID,
		Rol:           rol,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("cargos").InsertOne(ctx, pos); err != nil {
		f.t.Fatalf("failed to create test position: %v", err)
	}
	return pos
}

// CreateUser inserts a directory user pointing at the given area and position.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, areaID, positionID primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:                 primitive.NewObjectID(),
		Nombre:             name,
		CorreoElectronico:  normalize.Email(email),
		AreaTrabajo:        areaID,
		PuestoTrabajo:      positionID,
		PrimerInicioSesion: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := f.db.Collection("usuarios").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateUserWithRole creates an area, a position with the given role and a
// user holding that position.
func (f *Fixtures) CreateUserWithRole(ctx context.Context, name, email, rol string) models.User {
	f.t.Helper()

	area := f.CreateArea(ctx, "Área "+name)
	pos := f.CreatePosition(ctx, "Puesto "+name, area.ID, rol)
	return f.CreateUser(ctx, name, email, area.ID, pos.ID)
}

// CreateJefe creates a user whose position carries the Jefe role.
func (f *Fixtures) CreateJefe(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUserWithRole(ctx, name, email, models.RoleJefe)
}

// CreateEmpleado creates a user whose position carries the Empleado role.
func (f *Fixtures) CreateEmpleado(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUserWithRole(ctx, name, email, models.RoleEmpleado)
}

// CreateAssignment inserts an assignment created by creatorID.
func (f *Fixtures) CreateAssignment(ctx context.Context, name string, creatorID primitive.ObjectID) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	start := time.Date(2024, time.November, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.November, 30, 12, 0, 0, 0, time.UTC)
	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		Nombre:      name,
		Descripcion: "Descripción de prueba",
		FechaInicio: &start,
		FechaFin:    &end,
		CreadoPor:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("asignaciones").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// CreateLink inserts an Assignment-User link in the "Sin Iniciar" state.
func (f *Fixtures) CreateLink(ctx context.Context, assignmentID, uid primitive.ObjectID) models.AssignmentUser {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.AssignmentUser{
		ID:           primitive.NewObjectID(),
		UID:          uid,
		IDAsignacion: assignmentID,
		Estado:       models.EstadoSinIniciar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("asignacionesXusuario").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test link: %v", err)
	}
	return l
}

// CreateComment inserts a comment on linkID written at the given instant.
func (f *Fixtures) CreateComment(ctx context.Context, linkID, authorID primitive.ObjectID, content string, at time.Time) models.Comment {
	f.t.Helper()

	c := models.Comment{
		ID:                   primitive.NewObjectID(),
		IDAsignacionXUsuario: linkID,
		UIDUsuario:           authorID,
		Contenido:            content,
		FechaCreacion:        at,
	}
	if _, err := f.db.Collection("comentariosAsignaciones").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}
