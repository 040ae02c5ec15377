// internal/domain/models/area.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Area is an organizational department ("área de trabajo").
type Area struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Nombre    string             `bson:"nombre" json:"nombre"`
	NombreCI  string             `bson:"nombre_ci" json:"-"` // folded: lowercase, diacritics stripped
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
