// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	positionstore "github.com/dalemusser/workhub/internal/app/store/positions"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/directory"
	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Names of the area and position the bootstrap Admin is placed in.
const (
	adminAreaName     = "Administración"
	adminPositionName = "Administrador"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Any("timeouts", timeouts.Current()))
	}

	if deps.AuditRetention != nil {
		deps.AuditRetention.Start()
	}

	if appCfg.AdminEmail != "" {
		dir := newDirectory(newIdentity(appCfg, deps, logger), deps, logger)
		if err := ensureAdmin(ctx, dir, appCfg, logger); err != nil {
			logger.Error("admin bootstrap failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ensureAdmin makes sure a user with appCfg.AdminEmail exists. A missing
// user is created in the admin area and position, which are created too
// when absent. An existing user is left untouched. The first-login reset
// is skipped for this account because its password comes from config.
func ensureAdmin(ctx context.Context, dir *directory.Service, appCfg AppConfig, logger *zap.Logger) error {
	email := normalize.Email(appCfg.AdminEmail)

	existing, err := dir.GetUserByEmail(ctx, email)
	if err == nil {
		ru, rerr := dir.GetUser(ctx, existing.ID)
		if rerr == nil && ru.Rol != models.RoleAdmin {
			logger.Warn("bootstrap admin email belongs to a non-admin user",
				zap.String("email", email), zap.String("rol", ru.Rol))
		}
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	area, err := findOrCreateArea(ctx, dir, adminAreaName)
	if err != nil {
		return fmt.Errorf("admin area: %w", err)
	}
	pos, err := findOrCreateAdminPosition(ctx, dir, area.ID)
	if err != nil {
		return fmt.Errorf("admin position: %w", err)
	}

	uid, err := dir.RegisterUser(ctx, directory.Registration{
		Email:    email,
		Password: appCfg.AdminPassword,
		Nombre:   appCfg.AdminName,
		AreaID:   area.ID.Hex(),
		PuestoID: pos.ID.Hex(),
	})
	if err != nil {
		return err
	}
	if err := dir.MarkFirstLoginDone(ctx, uid); err != nil {
		return err
	}
	logger.Info("created bootstrap admin", zap.String("email", email), zap.String("uid", uid.Hex()))
	return nil
}

func findOrCreateArea(ctx context.Context, dir *directory.Service, name string) (models.Area, error) {
	a, err := dir.CreateArea(ctx, name)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, apperr.ErrDuplicateName) {
		return models.Area{}, err
	}
	areas, err := dir.ListAreas(ctx)
	if err != nil {
		return models.Area{}, err
	}
	want := normalize.FoldName(name)
	for _, a := range areas {
		if a.NombreCI == want {
			return a, nil
		}
	}
	return models.Area{}, apperr.ErrNotFound
}

func findOrCreateAdminPosition(ctx context.Context, dir *directory.Service, areaID primitive.ObjectID) (models.Position, error) {
	positions, err := dir.ListPositions(ctx)
	if err != nil {
		return models.Position{}, err
	}
	for _, p := range positions {
		if p.IDAreaTrabajo == areaID && p.Rol == models.RoleAdmin {
			return p, nil
		}
	}
	res, err := dir.CreatePositions(ctx, areaID, []positionstore.Input{{Nombre: adminPositionName, Rol: models.RoleAdmin}})
	if err != nil {
		return models.Position{}, err
	}
	if len(res.Created) == 0 {
		return models.Position{}, fmt.Errorf("position %q exists in the admin area without the Admin role", adminPositionName)
	}
	return res.Created[0], nil
}
