// internal/domain/models/position.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried by a Position. The role decides what a user may do.
const (
	RoleJefe     = "Jefe"
	RoleEmpleado = "Empleado"
	RoleAdmin    = "Admin"
)

// IsValidRole reports whether r is one of the three position roles.
func IsValidRole(r string) bool {
	switch r {
	case RoleJefe, RoleEmpleado, RoleAdmin:
		return true
	}
	return false
}

// CanonicalRole maps r, compared case-insensitively, to one of the role
// constants. It returns "" when r is not a role.
func CanonicalRole(r string) string {
	switch strings.ToLower(strings.TrimSpace(r)) {
	case "jefe":
		return RoleJefe
	case "empleado":
		return RoleEmpleado
	case "admin":
		return RoleAdmin
	}
	return ""
}

// Position ("puesto de trabajo", stored in the cargos collection) belongs
// to exactly one Area.
type Position struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Nombre        string             `bson:"nombre" json:"nombre"`
	NombreCI      string             `bson:"nombre_ci" json:"-"`
	IDAreaTrabajo primitive.ObjectID `bson:"idAreaTrabajo" json:"idAreaTrabajo"`
	Rol           string             `bson:"rol" json:"rol"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
