// Package directory is the read/write surface over areas, positions and
// users. Reads join users against a Snapshot of areas and positions taken
// through a caller-owned dircache.Cache; every area or position write
// invalidates that cache.
package directory

import (
	"context"
	"errors"
	"strings"

	areastore "github.com/dalemusser/workhub/internal/app/store/areas"
	positionstore "github.com/dalemusser/workhub/internal/app/store/positions"
	userstore "github.com/dalemusser/workhub/internal/app/store/users"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/dircache"
	"github.com/dalemusser/workhub/internal/app/system/identity"
	"github.com/dalemusser/workhub/internal/app/system/inputval"
	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service wires the directory stores, the snapshot cache and the identity
// provider.
type Service struct {
	areas     *areastore.Store
	positions *positionstore.Store
	users     *userstore.Store
	cache     dircache.Cache
	idp       identity.Provider
	log       *zap.Logger
}

// NewService builds a Service. A nil cache disables caching.
func NewService(db *mongo.Database, cache dircache.Cache, idp identity.Provider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cache == nil {
		cache = dircache.Nop{}
	}
	return &Service{
		areas:     areastore.New(db, log),
		positions: positionstore.New(db, log),
		users:     userstore.New(db, log),
		cache:     cache,
		idp:       idp,
		log:       log,
	}
}

// Snapshot returns the current areas and positions, from cache when warm.
func (s *Service) Snapshot(ctx context.Context) (*dircache.Snapshot, error) {
	if snap, ok := s.cache.Get(ctx); ok {
		return snap, nil
	}
	areas, err := s.areas.List(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, err
	}
	snap := dircache.NewSnapshot(areas, positions)
	s.cache.Put(ctx, snap)
	return snap, nil
}

// ---- areas and positions ----

func (s *Service) ListAreas(ctx context.Context) ([]models.Area, error) {
	return s.areas.List(ctx)
}

func (s *Service) ListPositions(ctx context.Context) ([]models.Position, error) {
	return s.positions.List(ctx)
}

// CreateArea adds an area. A name that matches an existing one after case
// and accent folding yields apperr.ErrDuplicateName.
func (s *Service) CreateArea(ctx context.Context, name string) (models.Area, error) {
	a, err := s.areas.Create(ctx, name)
	if err != nil {
		return models.Area{}, err
	}
	s.cache.Invalidate(ctx)
	return a, nil
}

// CreatePositions adds positions under an existing area, skipping names
// already present there.
func (s *Service) CreatePositions(ctx context.Context, areaID primitive.ObjectID, inputs []positionstore.Input) (positionstore.CreateResult, error) {
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return positionstore.CreateResult{}, err
	}
	res, err := s.positions.CreateMany(ctx, areaID, inputs)
	if err != nil {
		return positionstore.CreateResult{}, err
	}
	if len(res.Created) > 0 {
		s.cache.Invalidate(ctx)
	}
	return res, nil
}

// DeletePositions removes positions by id. Users holding them keep the
// dangling reference and resolve to the placeholder.
func (s *Service) DeletePositions(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	n, err := s.positions.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.cache.Invalidate(ctx)
	}
	return n, nil
}

// ---- users ----

// ListUsers returns every user joined against the directory.
func (s *Service) ListUsers(ctx context.Context) ([]models.ResolvedUser, error) {
	raw, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ResolvedUser, 0, len(raw))
	for _, u := range raw {
		out = append(out, snap.Resolve(u))
	}
	return out, nil
}

// GetUser returns one resolved user.
func (s *Service) GetUser(ctx context.Context, uid primitive.ObjectID) (models.ResolvedUser, error) {
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return models.ResolvedUser{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.ResolvedUser{}, err
	}
	return snap.Resolve(u), nil
}

// GetUsers resolves many users at once. Unknown uids are absent.
func (s *Service) GetUsers(ctx context.Context, uids []primitive.ObjectID) (map[primitive.ObjectID]models.ResolvedUser, error) {
	raw, err := s.users.GetByIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]models.ResolvedUser, len(raw))
	for _, u := range raw {
		out[u.ID] = snap.Resolve(u)
	}
	return out, nil
}

// GetUserByEmail returns the raw record for a normalized email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// Registration is the input to RegisterUser.
type Registration struct {
	Email    string `json:"correoElectronico" validate:"required,strictemail"`
	Password string `json:"password" validate:"required"`
	Nombre   string `json:"nombre" validate:"required,max=200"`
	AreaID   string `json:"areaId" validate:"required,len=24,hexadecimal"`
	PuestoID string `json:"puestoId" validate:"required,len=24,hexadecimal"`
}

// RegisterUser creates the identity account and then the directory record
// with the first-login flag set. If the account cannot be created nothing
// is written. If the directory write fails the account stays behind and
// the orphaned uid is logged.
func (s *Service) RegisterUser(ctx context.Context, reg Registration) (primitive.ObjectID, error) {
	reg.Email = normalize.Email(reg.Email)
	reg.Nombre = normalize.Name(reg.Nombre)
	if res := inputval.Validate(reg); res.HasErrors() {
		return primitive.NilObjectID, apperr.Invalid(res.First())
	}
	areaID, _ := primitive.ObjectIDFromHex(reg.AreaID)
	puestoID, _ := primitive.ObjectIDFromHex(reg.PuestoID)
	if err := s.checkPlacement(ctx, areaID, puestoID); err != nil {
		return primitive.NilObjectID, err
	}

	if _, err := s.users.GetByEmail(ctx, reg.Email); err == nil {
		return primitive.NilObjectID, apperr.ErrDuplicateEmail
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return primitive.NilObjectID, err
	}

	uid, err := s.idp.CreateAccount(ctx, reg.Email, reg.Password)
	if err != nil {
		return primitive.NilObjectID, err
	}

	_, err = s.users.Create(ctx, models.User{
		ID:                uid,
		Nombre:            reg.Nombre,
		CorreoElectronico: reg.Email,
		AreaTrabajo:       areaID,
		PuestoTrabajo:     puestoID,
	})
	if err != nil {
		s.log.Error("directory record not written; identity account is orphaned",
			zap.String("uid", uid.Hex()),
			zap.String("email", reg.Email),
			zap.Error(err))
		return primitive.NilObjectID, err
	}
	return uid, nil
}

// UserUpdate is a partial update. Nil fields are left unchanged.
type UserUpdate struct {
	Nombre            *string `json:"nombre"`
	CorreoElectronico *string `json:"correoElectronico"`
	AreaID            *string `json:"areaId"`
	PuestoID          *string `json:"puestoId"`
	Disabled          *bool   `json:"disabled"`
}

// Fields lists the json names of the fields that are set.
func (u UserUpdate) Fields() []string {
	var out []string
	if u.Nombre != nil {
		out = append(out, "nombre")
	}
	if u.CorreoElectronico != nil {
		out = append(out, "correoElectronico")
	}
	if u.AreaID != nil {
		out = append(out, "areaId")
	}
	if u.PuestoID != nil {
		out = append(out, "puestoId")
	}
	if u.Disabled != nil {
		out = append(out, "disabled")
	}
	return out
}

// UpdateUser applies upd to uid. An email change is pushed to the identity
// account first. If the directory write then fails the account is put back
// on the old email; when that also fails the two disagree until an admin
// repeats the change, and the mismatch is logged.
func (s *Service) UpdateUser(ctx context.Context, uid primitive.ObjectID, upd UserUpdate) (models.ResolvedUser, error) {
	if len(upd.Fields()) == 0 {
		return models.ResolvedUser{}, apperr.Invalid("no fields to update")
	}
	cur, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return models.ResolvedUser{}, err
	}

	var set userstore.Update
	if upd.Nombre != nil {
		n := normalize.Name(*upd.Nombre)
		if n == "" {
			return models.ResolvedUser{}, apperr.Invalid("nombre is required")
		}
		set.Nombre = &n
	}

	areaID, puestoID := cur.AreaTrabajo, cur.PuestoTrabajo
	if upd.AreaID != nil {
		id, err := primitive.ObjectIDFromHex(*upd.AreaID)
		if err != nil {
			return models.ResolvedUser{}, apperr.Invalid("areaId is not a valid id")
		}
		areaID = id
		set.AreaTrabajo = &id
	}
	if upd.PuestoID != nil {
		id, err := primitive.ObjectIDFromHex(*upd.PuestoID)
		if err != nil {
			return models.ResolvedUser{}, apperr.Invalid("puestoId is not a valid id")
		}
		puestoID = id
		set.PuestoTrabajo = &id
	}
	if upd.AreaID != nil || upd.PuestoID != nil {
		if err := s.checkPlacement(ctx, areaID, puestoID); err != nil {
			return models.ResolvedUser{}, err
		}
	}

	if upd.CorreoElectronico != nil {
		email := normalize.Email(*upd.CorreoElectronico)
		if !inputval.IsValidEmail(email) {
			return models.ResolvedUser{}, apperr.Invalid("correoElectronico no es un correo válido")
		}
		if email != cur.CorreoElectronico {
			taken, err := s.users.EmailExistsForOther(ctx, email, uid)
			if err != nil {
				return models.ResolvedUser{}, err
			}
			if taken {
				return models.ResolvedUser{}, apperr.ErrDuplicateEmail
			}
			if err := s.idp.UpdateEmail(ctx, uid, email); err != nil {
				return models.ResolvedUser{}, err
			}
			set.CorreoElectronico = &email
		}
	}

	if !set.IsEmpty() {
		if err := s.users.Update(ctx, uid, set); err != nil {
			if set.CorreoElectronico != nil {
				s.restoreEmail(ctx, uid, cur.CorreoElectronico, *set.CorreoElectronico)
			}
			return models.ResolvedUser{}, err
		}
	}
	if upd.Disabled != nil {
		if err := s.idp.SetDisabled(ctx, uid, *upd.Disabled); err != nil {
			return models.ResolvedUser{}, err
		}
	}
	return s.GetUser(ctx, uid)
}

// restoreEmail moves the identity account back to old after the directory
// refused the change to attempted.
func (s *Service) restoreEmail(ctx context.Context, uid primitive.ObjectID, old, attempted string) {
	if err := s.idp.UpdateEmail(ctx, uid, old); err != nil {
		s.log.Error("directory email not updated; identity account email differs",
			zap.String("uid", uid.Hex()),
			zap.String("account_email", attempted),
			zap.String("directory_email", old),
			zap.Error(err))
		return
	}
	s.log.Warn("directory email not updated; identity account email restored",
		zap.String("uid", uid.Hex()),
		zap.String("email", old))
}

// MarkFirstLoginDone clears the first-login flag.
func (s *Service) MarkFirstLoginDone(ctx context.Context, uid primitive.ObjectID) error {
	return s.users.MarkFirstLoginDone(ctx, uid)
}

// checkPlacement requires both ids to exist and the position to belong to
// the area. It reads the stores directly so a stale cache cannot admit a
// deleted position.
func (s *Service) checkPlacement(ctx context.Context, areaID, puestoID primitive.ObjectID) error {
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return err
	}
	p, err := s.positions.GetByID(ctx, puestoID)
	if err != nil {
		return err
	}
	if p.IDAreaTrabajo != areaID {
		return apperr.Invalid("puestoId does not belong to areaId")
	}
	return nil
}

// JoinFields renders UserUpdate.Fields for audit details.
func JoinFields(fields []string) string {
	return strings.Join(fields, ",")
}
