// internal/app/features/functions/token.go
package functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey string

const subjectKey ctxKey = "functionSubject"

// RequireServiceToken admits requests carrying an HS256 bearer token signed
// with secret. The token must have an expiry. Its subject names the calling
// service in the audit log.
func RequireServiceToken(secret []byte, log *zap.Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				httpjson.Write(w, http.StatusServiceUnavailable, httpjson.ErrorBody{Error: "functions are disabled", Code: "disabled"})
				return
			}
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "Autenticación requerida", Code: "unauthorized"})
				return
			}

			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}); err != nil {
				log.Info("service token rejected", zap.Error(err))
				httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "Token inválido o expirado", Code: "unauthorized"})
				return
			}
			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the verified token subject.
func Subject(r *http.Request) string {
	s, _ := r.Context().Value(subjectKey).(string)
	return s
}
