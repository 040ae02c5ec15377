// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment ("asignación") is a task definition created by a supervisor.
//
// IDAsignacionesXUsuario is never stored; it is attached when listing the
// assignments of one user so callers can address that user's link.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Nombre      string             `bson:"nombre" json:"nombre"`
	Descripcion string             `bson:"descripcion" json:"descripcion"`
	FechaInicio *time.Time         `bson:"fechaInicio,omitempty" json:"fechaInicio,omitempty"`
	FechaFin    *time.Time         `bson:"fechaFin,omitempty" json:"fechaFin,omitempty"`
	CreadoPor   primitive.ObjectID `bson:"creadoPor" json:"creadoPor"`

	IDAsignacionesXUsuario *primitive.ObjectID `bson:"-" json:"idAsignacionesXUsuario,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AssignmentUpdate holds the mutable fields of an Assignment. Nil fields
// are left untouched. ClearFechaInicio / ClearFechaFin unset a date.
type AssignmentUpdate struct {
	Nombre           *string
	Descripcion      *string
	FechaInicio      *time.Time
	FechaFin         *time.Time
	ClearFechaInicio bool
	ClearFechaFin    bool
}
