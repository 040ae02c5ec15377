// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Placeholders used when a directory reference cannot be resolved.
const (
	AreaNotFound     = "Área no encontrada"
	PositionNotFound = "Puesto no encontrado"
	UserNotFound     = "Usuario no encontrado"
	EmailNotFound    = "Correo no encontrado"
)

// User is the raw directory record stored in the usuarios collection.
//
// NOTE:
//   - ID is the identity-provider account id (the uid); the directory
//     record is written only after the account exists.
//   - AreaTrabajo / PuestoTrabajo hold ids, not names. Use ResolvedUser
//     for the joined read model.
type User struct {
	ID                 primitive.ObjectID `bson:"_id" json:"uid"`
	Nombre             string             `bson:"nombre" json:"nombre"`
	CorreoElectronico  string             `bson:"correoElectronico" json:"correoElectronico"`
	AreaTrabajo        primitive.ObjectID `bson:"areaTrabajo" json:"areaId"`
	PuestoTrabajo      primitive.ObjectID `bson:"puestoTrabajo" json:"puestoId"`
	PrimerInicioSesion bool               `bson:"primerInicioSesion" json:"primerInicioSesion"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ResolvedUser is a User joined against the directory: area and position
// ids are resolved to names (or placeholders) and the position role is
// carried along for authorization.
type ResolvedUser struct {
	UID                primitive.ObjectID `json:"uid"`
	Nombre             string             `json:"nombre"`
	CorreoElectronico  string             `json:"correoElectronico"`
	AreaTrabajo        string             `json:"areaTrabajo"`
	PuestoTrabajo      string             `json:"puestoTrabajo"`
	AreaID             primitive.ObjectID `json:"areaId"`
	PuestoID           primitive.ObjectID `json:"puestoId"`
	Rol                string             `json:"rol,omitempty"`
	PrimerInicioSesion bool               `json:"primerInicioSesion"`
}
