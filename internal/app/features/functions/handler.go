// internal/app/features/functions/handler.go
package functions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler exposes privileged operations to trusted services. Callers
// authenticate with a signed token instead of a session.
type Handler struct {
	Dir      *directory.Service
	Secret   []byte
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(dir *directory.Service, secret string, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Dir:      dir,
		Secret:   []byte(secret),
		AuditLog: audit,
		Log:      logger,
	}
}

type addUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nombre   string `json:"nombre"`
	AreaID   string `json:"areaId"`
	PuestoID string `json:"puestoId"`
}

type addUserResponse struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
}

// HandleAddUser handles POST /functions/addUser. It runs the same
// account-then-directory sequence as POST /users.
func (h *Handler) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	var in addUserRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	uid, err := h.Dir.RegisterUser(ctx, directory.Registration{
		Email:    in.Email,
		Password: in.Password,
		Nombre:   in.Nombre,
		AreaID:   in.AreaID,
		PuestoID: in.PuestoID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.AuditLog.FunctionUserCreated(ctx, r, Subject(r), uid.Hex(), in.Email)
	httpjson.Created(w, addUserResponse{
		UID:     uid.Hex(),
		Message: fmt.Sprintf("Usuario %s registrado con éxito", in.Nombre),
	})
}
