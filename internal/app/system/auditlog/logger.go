// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/workhub/internal/app/store/audit"
	"github.com/dalemusser/workhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, password reset).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for directory and assignment changes.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ratelimit.ClientIP(r)
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.TargetID != "" {
		fields = append(fields, zap.String("target_id", event.TargetID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can run without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) auth(ctx context.Context, r *http.Request, eventType, uid, reason string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		ActorID:       uid,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       reason == "",
		FailureReason: reason,
		Details:       details,
	})
}

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType, actorID, targetID string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		TargetID:  targetID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   details,
	})
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, uid, email string) {
	l.auth(ctx, r, audit.EventLoginSuccess, uid, "", map[string]string{"email": email})
}

// LoginFailedUserNotFound logs a sign-in for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.auth(ctx, r, audit.EventLoginFailedUserNotFound, "", "user not found", map[string]string{"attempted_email": attemptedEmail})
}

// LoginFailedWrongPassword logs a sign-in with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, uid, email string) {
	l.auth(ctx, r, audit.EventLoginFailedWrongPassword, uid, "wrong password", map[string]string{"email": email})
}

// LoginFailedUserDisabled logs a sign-in against a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, uid, email string) {
	l.auth(ctx, r, audit.EventLoginFailedUserDisabled, uid, "user disabled", map[string]string{"email": email})
}

// FirstLoginPending logs a sign-in refused until the user sets a password.
func (l *Logger) FirstLoginPending(ctx context.Context, r *http.Request, uid, email string) {
	l.auth(ctx, r, audit.EventLoginFirstLoginPending, uid, "first login pending", map[string]string{"email": email})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, uid string) {
	l.auth(ctx, r, audit.EventLogout, uid, "", nil)
}

// PasswordResetRequested logs a reset request. The email is recorded even
// when no account matched.
func (l *Logger) PasswordResetRequested(ctx context.Context, r *http.Request, email string) {
	l.auth(ctx, r, audit.EventPasswordResetRequested, "", "", map[string]string{"email": email})
}

// PasswordResetCompleted logs a consumed reset token.
func (l *Logger) PasswordResetCompleted(ctx context.Context, r *http.Request, uid string) {
	l.auth(ctx, r, audit.EventPasswordResetCompleted, uid, "", nil)
}

// --- Admin Events ---

// UserCreated logs a registration performed by actorID.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID, uid, email string) {
	l.admin(ctx, r, audit.EventUserCreated, actorID, uid, map[string]string{"email": email})
}

// UserUpdated logs a partial user update.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, uid, fieldsChanged string) {
	l.admin(ctx, r, audit.EventUserUpdated, actorID, uid, map[string]string{"fields_changed": fieldsChanged})
}

// FunctionUserCreated logs a registration made through the token-protected
// function endpoint.
func (l *Logger) FunctionUserCreated(ctx context.Context, r *http.Request, subject, uid, email string) {
	l.admin(ctx, r, audit.EventFunctionUserCreated, "", uid, map[string]string{"email": email, "subject": subject})
}

// AreaCreated logs a new area.
func (l *Logger) AreaCreated(ctx context.Context, r *http.Request, actorID, areaID, nombre string) {
	l.admin(ctx, r, audit.EventAreaCreated, actorID, areaID, map[string]string{"nombre": nombre})
}

// PositionsCreated logs a batch position create.
func (l *Logger) PositionsCreated(ctx context.Context, r *http.Request, actorID, areaID string, created, skipped int) {
	l.admin(ctx, r, audit.EventPositionsCreated, actorID, areaID, map[string]string{
		"created": strconv.Itoa(created),
		"skipped": strconv.Itoa(skipped),
	})
}

// PositionsDeleted logs a batch position delete.
func (l *Logger) PositionsDeleted(ctx context.Context, r *http.Request, actorID string, ids []string, deleted int64) {
	l.admin(ctx, r, audit.EventPositionsDeleted, actorID, "", map[string]string{
		"ids":     strings.Join(ids, ","),
		"deleted": strconv.FormatInt(deleted, 10),
	})
}

// AssignmentCreated logs a new assignment and its assignee count.
func (l *Logger) AssignmentCreated(ctx context.Context, r *http.Request, actorID, assignmentID, nombre string, assignees int) {
	l.admin(ctx, r, audit.EventAssignmentCreated, actorID, assignmentID, map[string]string{
		"nombre":    nombre,
		"assignees": strconv.Itoa(assignees),
	})
}

// AssignmentUpdated logs a partial assignment update.
func (l *Logger) AssignmentUpdated(ctx context.Context, r *http.Request, actorID, assignmentID, fieldsChanged string) {
	l.admin(ctx, r, audit.EventAssignmentUpdated, actorID, assignmentID, map[string]string{"fields_changed": fieldsChanged})
}

// AssignmentDeleted logs a cascade delete.
func (l *Logger) AssignmentDeleted(ctx context.Context, r *http.Request, actorID, assignmentID, nombre string) {
	l.admin(ctx, r, audit.EventAssignmentDeleted, actorID, assignmentID, map[string]string{"nombre": nombre})
}

// AssigneesAdded logs new links on an assignment.
func (l *Logger) AssigneesAdded(ctx context.Context, r *http.Request, actorID, assignmentID string, uids []string) {
	l.admin(ctx, r, audit.EventAssigneesAdded, actorID, assignmentID, map[string]string{"uids": strings.Join(uids, ",")})
}

// AssigneesRemoved logs links removed from an assignment.
func (l *Logger) AssigneesRemoved(ctx context.Context, r *http.Request, actorID, assignmentID string, uids []string) {
	l.admin(ctx, r, audit.EventAssigneesRemoved, actorID, assignmentID, map[string]string{"uids": strings.Join(uids, ",")})
}

// LinkStatusChanged logs an estado change.
func (l *Logger) LinkStatusChanged(ctx context.Context, r *http.Request, actorID, linkID, estado string) {
	l.admin(ctx, r, audit.EventLinkStatusChanged, actorID, linkID, map[string]string{"estado": estado})
}

// CommentDeleted logs a removed comment.
func (l *Logger) CommentDeleted(ctx context.Context, r *http.Request, actorID, commentID string) {
	l.admin(ctx, r, audit.EventCommentDeleted, actorID, commentID, nil)
}
