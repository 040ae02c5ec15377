// internal/app/features/users/handler.go
package users

import (
	"github.com/dalemusser/workhub/internal/app/system/auditlog"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"go.uber.org/zap"
)

// Handler administers directory users.
type Handler struct {
	Dir      *directory.Service
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(dir *directory.Service, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Dir:      dir,
		AuditLog: audit,
		Log:      logger,
	}
}
