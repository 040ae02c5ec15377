package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/workhub/internal/app/store/users"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/domain/models"
	"github.com/dalemusser/workhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uid := primitive.NewObjectID()
	u, err := store.Create(ctx, models.User{
		ID:                uid,
		Nombre:            " Ana  Pérez ",
		CorreoElectronico: " Ana@Example.COM ",
		AreaTrabajo:       primitive.NewObjectID(),
		PuestoTrabajo:     primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID != uid {
		t.Error("expected the account uid to be kept")
	}
	if u.Nombre != "Ana Pérez" {
		t.Errorf("Nombre: got %q", u.Nombre)
	}
	if u.CorreoElectronico != "ana@example.com" {
		t.Errorf("CorreoElectronico: got %q", u.CorreoElectronico)
	}
	if !u.PrimerInicioSesion {
		t.Error("expected PrimerInicioSesion to be true for a new user")
	}
}

func TestStore_Create_RequiresUID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Nombre: "x"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := fixtures.CreateUser(ctx, "Luis", "luis@example.com", primitive.NewObjectID(), primitive.NewObjectID())

	tests := []struct {
		email   string
		wantErr error
	}{
		{"luis@example.com", nil},
		{"  LUIS@Example.com ", nil},
		{"nadie@example.com", apperr.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			got, err := store.GetByEmail(ctx, tc.email)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByEmail failed: %v", err)
			}
			if got.ID != want.ID {
				t.Errorf("got user %s, want %s", got.ID.Hex(), want.ID.Hex())
			}
		})
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Update_Partial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := primitive.NewObjectID()
	orig := fixtures.CreateUser(ctx, "Marta", "marta@example.com", area, primitive.NewObjectID())

	newPos := primitive.NewObjectID()
	name := "Marta Gómez"
	if err := store.Update(ctx, orig.ID, userstore.Update{Nombre: &name, PuestoTrabajo: &newPos}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, orig.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Nombre != name {
		t.Errorf("Nombre: got %q", got.Nombre)
	}
	if got.PuestoTrabajo != newPos {
		t.Error("expected PuestoTrabajo to change")
	}
	if got.AreaTrabajo != area {
		t.Error("expected AreaTrabajo to be untouched")
	}
	if got.CorreoElectronico != "marta@example.com" {
		t.Errorf("expected email untouched, got %q", got.CorreoElectronico)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	name := "x"
	err := store.Update(ctx, primitive.NewObjectID(), userstore.Update{Nombre: &name})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_MarkFirstLoginDone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Pedro", "pedro@example.com", primitive.NewObjectID(), primitive.NewObjectID())

	if err := store.MarkFirstLoginDone(ctx, u.ID); err != nil {
		t.Fatalf("MarkFirstLoginDone failed: %v", err)
	}

	var raw bson.M
	if err := db.Collection(userstore.Collection).FindOne(ctx, bson.M{"_id": u.ID}).Decode(&raw); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if raw["primerInicioSesion"] != false {
		t.Errorf("expected primerInicioSesion false, got %v", raw["primerInicioSesion"])
	}
}

func TestStore_EmailExistsForOther(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db, nil)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "A", "a@example.com", primitive.NewObjectID(), primitive.NewObjectID())
	b := fixtures.CreateUser(ctx, "B", "b@example.com", primitive.NewObjectID(), primitive.NewObjectID())

	if exists, err := store.EmailExistsForOther(ctx, "A@example.com", a.ID); err != nil || exists {
		t.Errorf("own email should not count: exists=%v err=%v", exists, err)
	}
	if exists, err := store.EmailExistsForOther(ctx, "a@example.com", b.ID); err != nil || !exists {
		t.Errorf("expected email taken by another user: exists=%v err=%v", exists, err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jefe := fixtures.CreateJefe(ctx, "Jefa", "jefa@example.com")
	orphan := fixtures.CreateUser(ctx, "Sin Puesto", "sp@example.com", primitive.NewObjectID(), primitive.NewObjectID())

	f := userstore.NewFetcher(db, nil)

	su := f.FetchUser(ctx, jefe.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if su.Role != models.RoleJefe {
		t.Errorf("Role: got %q, want %q", su.Role, models.RoleJefe)
	}
	if su.LoginID != "jefa@example.com" {
		t.Errorf("LoginID: got %q", su.LoginID)
	}

	if su := f.FetchUser(ctx, orphan.ID.Hex()); su == nil || su.Role != "" {
		t.Errorf("expected user without role, got %+v", su)
	}
	if su := f.FetchUser(ctx, "not-an-id"); su != nil {
		t.Error("expected nil for malformed id")
	}
	if su := f.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Error("expected nil for unknown user")
	}

	if _, err := db.Collection("cuentas").InsertOne(ctx, bson.M{"_id": jefe.ID, "email": "jefa@example.com", "disabled": true}); err != nil {
		t.Fatalf("insert account: %v", err)
	}
	if su := f.FetchUser(ctx, jefe.ID.Hex()); su != nil {
		t.Error("expected nil for disabled account")
	}
}
