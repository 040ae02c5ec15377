// internal/domain/models/views.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SelectedAssignmentView is the denormalized read model of one user's
// view of one assignment. It is built on demand and never stored.
type SelectedAssignmentView struct {
	IDAsignacion          primitive.ObjectID `json:"id_asignacion"`
	NombreAsignacion      string             `json:"nombre_asignacion"`
	DescripcionAsignacion string             `json:"descripcion_asignacion"`
	FechaInicio           string             `json:"fechaInicio"`
	FechaFin              string             `json:"fechaFin"`
	IDAsignacionUsuario   primitive.ObjectID `json:"id_asignacion_usuario"`
	Estado                string             `json:"estado"`
	CreadoPor             ViewCreator        `json:"creadoPor"`
	UsuarioAsignado       ViewAssignee       `json:"usuario_asignado"`
}

// ViewCreator describes the user who created the assignment.
type ViewCreator struct {
	NombreUsuario     string             `json:"nombre_usuario"`
	UID               primitive.ObjectID `json:"uid"`
	CorreoElectronico string             `json:"correo_electronico"`
	Cargo             string             `json:"cargo"`
}

// ViewAssignee describes the user the link belongs to.
type ViewAssignee struct {
	NombreUsuario     string             `json:"nombre_usuario"`
	UID               primitive.ObjectID `json:"uid"`
	CorreoElectronico string             `json:"correo_electronico"`
	Puesto            string             `json:"puesto"`
}

// CommentDay is one calendar-date bucket of a comment thread.
type CommentDay struct {
	Fecha       string         `json:"fecha"`
	Comentarios []CommentEntry `json:"comentarios"`
}

// CommentEntry is a comment reduced to what a thread view renders.
type CommentEntry struct {
	Contenido  string             `json:"contenido"`
	UIDUsuario primitive.ObjectID `json:"uid_usuario"`
	Hora       string             `json:"hora"`
	ID         primitive.ObjectID `json:"id"`
}

// Assignee is one assigned user of an assignment, decorated with the
// user's directory info and the link's current estado.
type Assignee struct {
	IDAsignacionesXUsuario primitive.ObjectID `json:"idAsignacionesXUsuario"`
	UID                    primitive.ObjectID `json:"uid"`
	Nombre                 string             `json:"nombre"`
	CorreoElectronico      string             `json:"correoElectronico"`
	AreaTrabajo            string             `json:"areaTrabajo"`
	PuestoTrabajo          string             `json:"puestoTrabajo"`
	Estado                 string             `json:"estado"`
}

// AssignmentWithAssignees pairs an assignment with all of its assignees.
type AssignmentWithAssignees struct {
	Asignacion Assignment `json:"asignacion"`
	Usuarios   []Assignee `json:"usuarios"`
}

// AssigneeRef is the minimal (uid, link id) pair for an assignee.
type AssigneeRef struct {
	UID                  primitive.ObjectID `json:"uid"`
	IDAsignacionXUsuario primitive.ObjectID `json:"idAsignacionXUsuario"`
}
