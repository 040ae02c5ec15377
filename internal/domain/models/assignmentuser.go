// internal/domain/models/assignmentuser.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lifecycle states of an Assignment-User link. The intended order is
// Sin Iniciar -> En Proceso -> Terminada, but any transition is accepted.
const (
	EstadoSinIniciar = "Sin Iniciar"
	EstadoEnProceso  = "En Proceso"
	EstadoTerminada  = "Terminada"
)

// IsValidEstado reports whether s is one of the three lifecycle states.
func IsValidEstado(s string) bool {
	switch s {
	case EstadoSinIniciar, EstadoEnProceso, EstadoTerminada:
		return true
	}
	return false
}

// AssignmentUser is the authoritative join between an Assignment and one
// assigned user. Exactly one document per (id_asignacion, uid).
type AssignmentUser struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	UID          primitive.ObjectID `bson:"uid" json:"uid"`
	IDAsignacion primitive.ObjectID `bson:"id_asignacion" json:"id_asignacion"`
	Estado       string             `bson:"estado" json:"estado"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
