// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is attached to one Assignment-User link, so each assignee has
// their own thread.
type Comment struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	IDAsignacionXUsuario primitive.ObjectID `bson:"id_asignacionXusuario" json:"id_asignacionXusuario"`
	UIDUsuario           primitive.ObjectID `bson:"uid_usuario" json:"uid_usuario"`
	Contenido            string             `bson:"contenido" json:"contenido"`
	FechaCreacion        time.Time          `bson:"fechaCreacion" json:"fechaCreacion"`
	UpdatedAt            *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
