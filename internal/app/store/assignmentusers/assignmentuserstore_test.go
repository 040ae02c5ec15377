package assignmentuserstore_test

import (
	"errors"
	"testing"

	assignmentuserstore "github.com/dalemusser/workhub/internal/app/store/assignmentusers"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateForUsers_SkipsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentuserstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAssignment(ctx, "Inventario", primitive.NewObjectID())
	u1, u2, u3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	fixtures.CreateLink(ctx, a.ID, u1)

	created, err := store.CreateForUsers(ctx, a.ID, []primitive.ObjectID{u1, u2, u2, u3})
	if err != nil {
		t.Fatalf("CreateForUsers failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 new links, got %d", len(created))
	}
	for _, l := range created {
		if l.Estado != models.EstadoSinIniciar {
			t.Errorf("new link estado: got %q", l.Estado)
		}
	}

	all, err := store.ListByAssignment(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByAssignment failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected exactly one link per user, got %d", len(all))
	}
}

func TestStore_UpdateEstado(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentuserstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAssignment(ctx, "Auditoría", primitive.NewObjectID())
	l := fixtures.CreateLink(ctx, a.ID, primitive.NewObjectID())

	tests := []struct {
		name    string
		id      primitive.ObjectID
		estado  string
		wantErr error
	}{
		{"forward", l.ID, models.EstadoEnProceso, nil},
		{"skip ahead", l.ID, models.EstadoTerminada, nil},
		{"backwards is accepted", l.ID, models.EstadoSinIniciar, nil},
		{"unknown value", l.ID, "Pausada", apperr.ErrValidation},
		{"wrong case", l.ID, "terminada", apperr.ErrValidation},
		{"missing link", primitive.NewObjectID(), models.EstadoTerminada, apperr.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := store.UpdateEstado(ctx, tc.id, tc.estado)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateEstado failed: %v", err)
			}
			got, err := store.GetByID(ctx, tc.id)
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if got.Estado != tc.estado {
				t.Errorf("estado: got %q, want %q", got.Estado, tc.estado)
			}
		})
	}
}

func TestStore_DeleteByUsers_KeepsOthers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentuserstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAssignment(ctx, "Capacitación", primitive.NewObjectID())
	other := fixtures.CreateAssignment(ctx, "Otra", primitive.NewObjectID())
	u1, u2 := primitive.NewObjectID(), primitive.NewObjectID()
	fixtures.CreateLink(ctx, a.ID, u1)
	keep := fixtures.CreateLink(ctx, a.ID, u2)
	otherLink := fixtures.CreateLink(ctx, other.ID, u1)

	n, err := store.DeleteByUsers(ctx, a.ID, []primitive.ObjectID{u1})
	if err != nil {
		t.Fatalf("DeleteByUsers failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	refs, err := store.ListAssignees(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListAssignees failed: %v", err)
	}
	if len(refs) != 1 || refs[0].UID != u2 || refs[0].IDAsignacionXUsuario != keep.ID {
		t.Errorf("unexpected assignees: %+v", refs)
	}

	if ok, err := store.Exists(ctx, otherLink.ID); err != nil || !ok {
		t.Errorf("link on another assignment must survive: ok=%v err=%v", ok, err)
	}
}

func TestStore_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentuserstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uid := primitive.NewObjectID()
	a1 := fixtures.CreateAssignment(ctx, "Uno", primitive.NewObjectID())
	a2 := fixtures.CreateAssignment(ctx, "Dos", primitive.NewObjectID())
	fixtures.CreateLink(ctx, a1.ID, uid)
	fixtures.CreateLink(ctx, a2.ID, uid)
	fixtures.CreateLink(ctx, a2.ID, primitive.NewObjectID())

	links, err := store.ListByUser(ctx, uid)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links, got %d", len(links))
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
