package assignmentpolicy

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCheck(t *testing.T) {
	admin := Actor{UID: "a", Role: models.RoleAdmin}
	jefe := Actor{UID: "j", Role: models.RoleJefe}
	emp := Actor{UID: "e", Role: models.RoleEmpleado}
	noPos := Actor{UID: "n"}
	own := Resource{OwnerUID: "e"}
	other := Resource{OwnerUID: "x"}

	tests := []struct {
		name  string
		actor Actor
		op    Op
		res   Resource
		allow bool
	}{
		{"admin deletes comment of others", admin, OpDeleteComment, other, true},
		{"admin manages directory", admin, OpManageDirectory, Resource{}, true},

		{"jefe creates assignment", jefe, OpCreateAssignment, Resource{}, true},
		{"jefe deletes assignment", jefe, OpDeleteAssignment, Resource{}, true},
		{"jefe updates any link status", jefe, OpUpdateStatus, other, true},
		{"jefe comments on any link", jefe, OpComment, other, true},
		{"jefe manages directory", jefe, OpManageDirectory, Resource{}, true},
		{"jefe edits others comment", jefe, OpEditComment, other, false},
		{"jefe edits own comment", jefe, OpEditComment, Resource{OwnerUID: "j"}, true},

		{"empleado updates own status", emp, OpUpdateStatus, own, true},
		{"empleado updates others status", emp, OpUpdateStatus, other, false},
		{"empleado reads own link", emp, OpReadLink, own, true},
		{"empleado reads others link", emp, OpReadLink, other, false},
		{"empleado comments own link", emp, OpComment, own, true},
		{"empleado comments others link", emp, OpComment, other, false},
		{"empleado deletes own comment", emp, OpDeleteComment, own, true},
		{"empleado creates assignment", emp, OpCreateAssignment, Resource{}, false},
		{"empleado manages directory", emp, OpManageDirectory, Resource{}, false},
		{"empleado reads all assignments", emp, OpReadAssignments, Resource{}, false},

		{"no position reads own link", noPos, OpReadLink, Resource{OwnerUID: "n"}, true},
		{"no position creates assignment", noPos, OpCreateAssignment, Resource{}, false},
		{"anonymous", Actor{}, OpReadLink, Resource{}, false},
		{"empty owner never matches", Actor{UID: "", Role: models.RoleEmpleado}, OpComment, Resource{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.actor, tt.op, tt.res)
			if tt.allow && err != nil {
				t.Errorf("expected allow, got %v", err)
			}
			if !tt.allow {
				if err == nil {
					t.Fatal("expected deny, got nil")
				}
				if !errors.Is(err, apperr.ErrForbidden) {
					t.Errorf("error %v does not wrap ErrForbidden", err)
				}
			}
		})
	}
}

func TestActorFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := ActorFromRequest(req); ok {
		t.Fatal("expected no actor on anonymous request")
	}

	bad := auth.WithTestUser(req, &auth.SessionUser{ID: "u1", Name: "Ana", Role: "jefe"})
	if _, ok := ActorFromRequest(bad); ok {
		t.Fatal("expected no actor for a malformed session uid")
	}

	uid := primitive.NewObjectID()
	req = auth.WithTestUser(req, &auth.SessionUser{ID: uid.Hex(), Name: "Ana", Role: "jefe"})
	actor, ok := ActorFromRequest(req)
	if !ok {
		t.Fatal("expected actor")
	}
	if actor.UID != uid.Hex() || actor.Role != models.RoleJefe {
		t.Errorf("actor = %+v", actor)
	}
	if err := CheckRequest(req, OpDeleteAssignment, Resource{}); err != nil {
		t.Errorf("CheckRequest: %v", err)
	}
}

func TestActorOID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := Actor{UID: id.Hex()}.OID()
	if err != nil || got != id {
		t.Errorf("OID() = %v, %v", got, err)
	}
	if _, err := (Actor{}).OID(); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("empty actor: err = %v, want ErrForbidden", err)
	}
}
