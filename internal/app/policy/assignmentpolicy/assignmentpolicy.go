// internal/app/policy/assignmentpolicy/assignmentpolicy.go
package assignmentpolicy

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/authz"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Op names a mutating or reading operation guarded by Check.
type Op string

const (
	OpManageDirectory  Op = "manage_directory"  // areas, positions, users
	OpCreateAssignment Op = "create_assignment" // also lists every assignment
	OpUpdateAssignment Op = "update_assignment"
	OpDeleteAssignment Op = "delete_assignment"
	OpManageAssignees  Op = "manage_assignees"
	OpReadAssignments  Op = "read_assignments"
	OpReadLink         Op = "read_link"
	OpUpdateStatus     Op = "update_status"
	OpComment          Op = "comment"
	OpEditComment      Op = "edit_comment"
	OpDeleteComment    Op = "delete_comment"
)

// Actor is the signed-in user. Role is one of the models.Role* constants,
// or "" when the user's position could not be resolved.
type Actor struct {
	UID  string
	Role string
}

// OID parses the actor's uid. Sessions only ever hold ObjectID hex, so an
// error means the request carried no usable user.
func (a Actor) OID() (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(a.UID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: no signed-in user", apperr.ErrForbidden)
	}
	return oid, nil
}

// Resource identifies what an operation touches. OwnerUID is the uid of
// the link's assignee or the comment's author; it is empty for operations
// that are not owner scoped.
type Resource struct {
	OwnerUID string
}

// jefeOps are allowed to Jefe on any resource.
var jefeOps = map[Op]bool{
	OpManageDirectory:  true,
	OpCreateAssignment: true,
	OpUpdateAssignment: true,
	OpDeleteAssignment: true,
	OpManageAssignees:  true,
	OpReadAssignments:  true,
	OpReadLink:         true,
	OpUpdateStatus:     true,
	OpComment:          true,
}

// ownerOps are allowed to any role on resources the actor owns.
var ownerOps = map[Op]bool{
	OpReadLink:      true,
	OpUpdateStatus:  true,
	OpComment:       true,
	OpEditComment:   true,
	OpDeleteComment: true,
}

// Check returns nil when actor may perform op on res, or an error wrapping
// apperr.ErrForbidden.
func Check(actor Actor, op Op, res Resource) error {
	if actor.UID == "" {
		return fmt.Errorf("%w: not signed in", apperr.ErrForbidden)
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleJefe:
		if jefeOps[op] {
			return nil
		}
	}
	if ownerOps[op] && res.OwnerUID != "" && res.OwnerUID == actor.UID {
		return nil
	}
	role := actor.Role
	if role == "" {
		role = "user without position"
	}
	return fmt.Errorf("%w: %s may not %s", apperr.ErrForbidden, role, op)
}

// ActorFromRequest builds the Actor for the signed-in session user. A
// session carrying a malformed uid yields no actor.
func ActorFromRequest(r *http.Request) (Actor, bool) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return Actor{}, false
	}
	return Actor{UID: uid.Hex(), Role: models.CanonicalRole(role)}, true
}

// CheckRequest is Check for the request's session user.
func CheckRequest(r *http.Request, op Op, res Resource) error {
	actor, _ := ActorFromRequest(r)
	return Check(actor, op, res)
}
