package assignmentqueries_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/workhub/internal/app/store/queries/assignmentqueries"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func snapshot(t *testing.T, ctx context.Context, db *mongo.Database) *dircache.Snapshot {
	t.Helper()
	var areas []models.Area
	var positions []models.Position
	cur, err := db.Collection("areas").Find(ctx, bson.M{})
	if err != nil {
		t.Fatalf("find areas: %v", err)
	}
	if err := cur.All(ctx, &areas); err != nil {
		t.Fatalf("decode areas: %v", err)
	}
	cur, err = db.Collection("cargos").Find(ctx, bson.M{})
	if err != nil {
		t.Fatalf("find cargos: %v", err)
	}
	if err := cur.All(ctx, &positions); err != nil {
		t.Fatalf("decode cargos: %v", err)
	}
	return dircache.NewSnapshot(areas, positions)
}

func TestListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jefe := fx.CreateJefe(ctx, "Carla", "carla@example.com")
	ana := fx.CreateEmpleado(ctx, "Ana", "ana@example.com")
	luis := fx.CreateEmpleado(ctx, "Luis", "luis@example.com")

	a1 := fx.CreateAssignment(ctx, "Primera", jefe.ID)
	time.Sleep(5 * time.Millisecond)
	a2 := fx.CreateAssignment(ctx, "Segunda", jefe.ID)
	l1 := fx.CreateLink(ctx, a1.ID, ana.ID)
	l2 := fx.CreateLink(ctx, a2.ID, ana.ID)
	fx.CreateLink(ctx, a1.ID, luis.ID)
	fx.CreateLink(ctx, primitive.NewObjectID(), ana.ID) // assignment deleted

	got, err := assignmentqueries.ListForUser(ctx, db, ana.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}
	if got[0].ID != a2.ID || got[1].ID != a1.ID {
		t.Errorf("expected newest first, got %s, %s", got[0].Nombre, got[1].Nombre)
	}
	if got[0].IDAsignacionesXUsuario == nil || *got[0].IDAsignacionesXUsuario != l2.ID {
		t.Errorf("link id not attached to %s", got[0].Nombre)
	}
	if got[1].IDAsignacionesXUsuario == nil || *got[1].IDAsignacionesXUsuario != l1.ID {
		t.Errorf("link id not attached to %s", got[1].Nombre)
	}

	none, err := assignmentqueries.ListForUser(ctx, db, jefe.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func TestListCreatedByWithAssignees(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jefe := fx.CreateJefe(ctx, "Carla", "carla@example.com")
	otherJefe := fx.CreateJefe(ctx, "Pedro", "pedro@example.com")
	ana := fx.CreateEmpleado(ctx, "Ana", "ana@example.com")
	ghost := primitive.NewObjectID()

	a := fx.CreateAssignment(ctx, "Inventario", jefe.ID)
	empty := fx.CreateAssignment(ctx, "Vacía", jefe.ID)
	fx.CreateAssignment(ctx, "Ajena", otherJefe.ID)
	link := fx.CreateLink(ctx, a.ID, ana.ID)
	fx.CreateLink(ctx, a.ID, ghost)
	if _, err := db.Collection("asignacionesXusuario").UpdateByID(ctx, link.ID, bson.M{"$set": bson.M{"estado": models.EstadoEnProceso}}); err != nil {
		t.Fatalf("set estado: %v", err)
	}

	got, err := assignmentqueries.ListCreatedByWithAssignees(ctx, db, snapshot(t, ctx, db), jefe.ID)
	if err != nil {
		t.Fatalf("ListCreatedByWithAssignees: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}

	byID := map[primitive.ObjectID]models.AssignmentWithAssignees{}
	for _, g := range got {
		byID[g.Asignacion.ID] = g
	}
	if e := byID[empty.ID]; e.Usuarios == nil || len(e.Usuarios) != 0 {
		t.Errorf("assignment without links should have empty usuarios, got %v", e.Usuarios)
	}

	users := byID[a.ID].Usuarios
	if len(users) != 2 {
		t.Fatalf("expected 2 assignees, got %d", len(users))
	}
	var found, placeholder bool
	for _, u := range users {
		switch u.UID {
		case ana.ID:
			found = true
			if u.Estado != models.EstadoEnProceso || u.IDAsignacionesXUsuario != link.ID {
				t.Errorf("ana = %+v", u)
			}
			if u.AreaTrabajo != "Área Ana" || u.PuestoTrabajo != "Puesto Ana" {
				t.Errorf("directory info not resolved: %+v", u)
			}
		case ghost:
			placeholder = true
			if u.Nombre != models.UserNotFound || u.CorreoElectronico != models.EmailNotFound ||
				u.AreaTrabajo != models.AreaNotFound || u.PuestoTrabajo != models.PositionNotFound {
				t.Errorf("ghost placeholders = %+v", u)
			}
		}
	}
	if !found || !placeholder {
		t.Errorf("assignees = %+v", users)
	}
}

func TestListCreatedByWithAssignees_None(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := assignmentqueries.ListCreatedByWithAssignees(ctx, db, dircache.NewSnapshot(nil, nil), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListCreatedByWithAssignees: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}
