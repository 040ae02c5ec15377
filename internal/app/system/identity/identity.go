// Package identity is the account provider behind sign-in, registration
// and password resets. Accounts live in their own collection and share
// their id with the directory user they belong to.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	accountstore "github.com/dalemusser/workhub/internal/app/store/accounts"
	passwordresetstore "github.com/dalemusser/workhub/internal/app/store/passwordresets"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/authutil"
	"github.com/dalemusser/workhub/internal/app/system/inputval"
	"github.com/dalemusser/workhub/internal/app/system/mailer"
	"github.com/dalemusser/workhub/internal/app/system/normalize"
	"github.com/dalemusser/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is the umbrella for failed sign-ins.
	ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")
	// ErrUnknownAccount and ErrWrongPassword both wrap ErrInvalidCredentials
	// so callers can audit the cause without revealing it to the client.
	ErrUnknownAccount = fmt.Errorf("%w: unknown account", ErrInvalidCredentials)
	ErrWrongPassword  = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	// ErrAccountDisabled is returned when a disabled account signs in.
	ErrAccountDisabled = errors.New("la cuenta está deshabilitada")
	// ErrInvalidToken is returned for unknown, used or expired reset tokens.
	ErrInvalidToken = passwordresetstore.ErrInvalidToken
)

// Provider manages identity accounts.
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (primitive.ObjectID, error)
	SignIn(ctx context.Context, email, password string) (models.Account, error)
	SendPasswordReset(ctx context.Context, email string, opts ResetMail) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (primitive.ObjectID, error)
	UpdateEmail(ctx context.Context, uid primitive.ObjectID, email string) error
	SetDisabled(ctx context.Context, uid primitive.ObjectID, disabled bool) error
}

// ResetMail personalizes the reset email.
type ResetMail struct {
	Nombre     string
	FirstLogin bool
}

// Config configures the local provider.
type Config struct {
	SiteName    string
	BaseURL     string // reset links point at BaseURL + ResetPath
	ResetPath   string
	ResetExpiry time.Duration
}

// Local stores accounts in MongoDB with bcrypt hashes and mails reset
// links through a mailer.Sender.
type Local struct {
	accounts *accountstore.Store
	resets   *passwordresetstore.Store
	mail     mailer.Sender
	cfg      Config
	log      *zap.Logger
}

// NewLocal builds the provider. A nil sender logs mails instead of sending.
func NewLocal(db *mongo.Database, mail mailer.Sender, cfg Config, log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	if mail == nil {
		mail = mailer.LogSender{Log: log}
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "WorkHub"
	}
	if cfg.ResetPath == "" {
		cfg.ResetPath = "/login/reset"
	}
	return &Local{
		accounts: accountstore.New(db, log),
		resets:   passwordresetstore.New(db, cfg.ResetExpiry, log),
		mail:     mail,
		cfg:      cfg,
		log:      log,
	}
}

// CreateAccount validates and stores a new account, returning its uid.
func (p *Local) CreateAccount(ctx context.Context, email, password string) (primitive.ObjectID, error) {
	email = normalize.Email(email)
	if !inputval.IsValidEmail(email) {
		return primitive.NilObjectID, apperr.Invalid("correoElectronico no es un correo válido")
	}
	if err := authutil.ValidatePassword(password); err != nil {
		return primitive.NilObjectID, apperr.Invalid(err.Error())
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return primitive.NilObjectID, apperr.Backend("hash password", err)
	}
	a, err := p.accounts.Create(ctx, email, hash)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return a.ID, nil
}

// SignIn checks credentials and returns the account.
func (p *Local) SignIn(ctx context.Context, email, password string) (models.Account, error) {
	a, err := p.accounts.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.Account{}, ErrUnknownAccount
	}
	if err != nil {
		return models.Account{}, err
	}
	if !authutil.CheckPassword(password, a.PasswordHash) {
		return a, ErrWrongPassword
	}
	if a.Disabled {
		return a, ErrAccountDisabled
	}
	return a, nil
}

// SendPasswordReset mails a reset link. Unknown emails succeed silently so
// the endpoint does not reveal which addresses are registered.
func (p *Local) SendPasswordReset(ctx context.Context, email string, opts ResetMail) error {
	a, err := p.accounts.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		p.log.Info("password reset for unknown email", zap.String("email", normalize.Email(email)))
		return nil
	}
	if err != nil {
		return err
	}
	if a.Disabled {
		p.log.Info("password reset for disabled account", zap.String("uid", a.ID.Hex()))
		return nil
	}

	token, err := p.resets.Create(ctx, a.ID)
	if err != nil {
		return err
	}

	msg := mailer.BuildPasswordResetEmail(mailer.PasswordResetData{
		SiteName:   p.cfg.SiteName,
		Nombre:     opts.Nombre,
		ResetLink:  p.resetLink(token),
		ExpiresIn:  FormatExpiry(p.resets.Expiry()),
		FirstLogin: opts.FirstLogin,
	})
	msg.To = a.Email
	if err := p.mail.Send(msg); err != nil {
		p.log.Error("send password reset failed", zap.String("uid", a.ID.Hex()), zap.Error(err))
		return apperr.Backend("send password reset", err)
	}
	return nil
}

func (p *Local) resetLink(token string) string {
	return strings.TrimRight(p.cfg.BaseURL, "/") + p.cfg.ResetPath + "?token=" + url.QueryEscape(token)
}

// ConfirmPasswordReset consumes token, sets the new password and marks the
// email verified. It returns the account uid.
func (p *Local) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (primitive.ObjectID, error) {
	if err := authutil.ValidatePassword(newPassword); err != nil {
		return primitive.NilObjectID, apperr.Invalid(err.Error())
	}
	uid, err := p.resets.Consume(ctx, token)
	if err != nil {
		return primitive.NilObjectID, err
	}
	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		return primitive.NilObjectID, apperr.Backend("hash password", err)
	}
	if err := p.accounts.SetPassword(ctx, uid, hash, true); err != nil {
		return primitive.NilObjectID, err
	}
	return uid, nil
}

// UpdateEmail changes the sign-in email.
func (p *Local) UpdateEmail(ctx context.Context, uid primitive.ObjectID, email string) error {
	email = normalize.Email(email)
	if !inputval.IsValidEmail(email) {
		return apperr.Invalid("correoElectronico no es un correo válido")
	}
	return p.accounts.SetEmail(ctx, uid, email)
}

// SetDisabled blocks or unblocks sign-in.
func (p *Local) SetDisabled(ctx context.Context, uid primitive.ObjectID, disabled bool) error {
	return p.accounts.SetDisabled(ctx, uid, disabled)
}

// Account returns the stored account for uid.
func (p *Local) Account(ctx context.Context, uid primitive.ObjectID) (models.Account, error) {
	return p.accounts.GetByID(ctx, uid)
}

// FormatExpiry renders d in Spanish, e.g. "1 hora" or "30 minutos".
func FormatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minuto"
		}
		return fmt.Sprintf("%d minutos", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hora"
	}
	return fmt.Sprintf("%d horas", hours)
}
