// Package dircache holds the directory snapshot (areas and positions) and
// the caches it can be read through. There is no package-level state: the
// caller owns the Cache and invalidates it after every directory write.
package dircache

import (
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshot is an immutable, id-indexed view of all areas and positions.
type Snapshot struct {
	Areas     map[primitive.ObjectID]models.Area
	Positions map[primitive.ObjectID]models.Position
}

// NewSnapshot indexes areas and positions by id.
func NewSnapshot(areas []models.Area, positions []models.Position) *Snapshot {
	s := &Snapshot{
		Areas:     make(map[primitive.ObjectID]models.Area, len(areas)),
		Positions: make(map[primitive.ObjectID]models.Position, len(positions)),
	}
	for _, a := range areas {
		s.Areas[a.ID] = a
	}
	for _, p := range positions {
		s.Positions[p.ID] = p
	}
	return s
}

// AreaName returns the area's name or the "not found" placeholder.
func (s *Snapshot) AreaName(id primitive.ObjectID) string {
	if a, ok := s.Areas[id]; ok {
		return a.Nombre
	}
	return models.AreaNotFound
}

// PositionName returns the position's name or the "not found" placeholder.
func (s *Snapshot) PositionName(id primitive.ObjectID) string {
	if p, ok := s.Positions[id]; ok {
		return p.Nombre
	}
	return models.PositionNotFound
}

// Role returns the role of the position, or "" when it does not exist.
func (s *Snapshot) Role(positionID primitive.ObjectID) string {
	return s.Positions[positionID].Rol
}

// Resolve joins a raw user against the snapshot. Missing references
// degrade to placeholders instead of failing.
func (s *Snapshot) Resolve(u models.User) models.ResolvedUser {
	return models.ResolvedUser{
		UID:                u.ID,
		Nombre:             u.Nombre,
		CorreoElectronico:  u.CorreoElectronico,
		AreaTrabajo:        s.AreaName(u.AreaTrabajo),
		PuestoTrabajo:      s.PositionName(u.PuestoTrabajo),
		AreaID:             u.AreaTrabajo,
		PuestoID:           u.PuestoTrabajo,
		Rol:                s.Role(u.PuestoTrabajo),
		PrimerInicioSesion: u.PrimerInicioSesion,
	}
}

// wire is the serialized form used by shared caches.
type wire struct {
	Areas     []models.Area     `json:"areas"`
	Positions []models.Position `json:"positions"`
}

func (s *Snapshot) toWire() wire {
	w := wire{
		Areas:     make([]models.Area, 0, len(s.Areas)),
		Positions: make([]models.Position, 0, len(s.Positions)),
	}
	for _, a := range s.Areas {
		w.Areas = append(w.Areas, a)
	}
	for _, p := range s.Positions {
		w.Positions = append(w.Positions, p)
	}
	return w
}
