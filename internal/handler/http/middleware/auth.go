package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Caller is the identity carried by a verified access token.
type Caller struct {
	EmployeeCode string
	Role         employee.Role
}

type callerKey struct{}

// CallerFromContext returns the caller set by AuthRequired.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			tokenType, ok := claims[jwt.ClaimType].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			employeeCode, ok := claims[jwt.ClaimEmployeeCode].(string)
			if !ok || employeeCode == "" {
				response.Unauthorized(w, "Token carries no employee code")
				return
			}
			role, _ := claims[jwt.ClaimRole].(string)

			ctx := WithCaller(r.Context(), Caller{EmployeeCode: employeeCode, Role: employee.Role(role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
