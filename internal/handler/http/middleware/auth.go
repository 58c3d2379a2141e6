package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type claimsKey struct{}

// Claims is the caller identity carried by an access token.
type Claims struct {
	UserID string
	Role   employee.Role
	Branch string
	Token  string
}

func (c Claims) IsManager() bool {
	return c.Role == employee.RoleManager
}

// AuthRequired runs after jwtauth.Verifier. It rejects missing, non-access and
// revoked tokens and stores the caller's Claims on the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			if raw == "" || jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			role, _ := claims["role"].(string)
			branch, _ := claims["branch"].(string)

			ctx := WithClaims(r.Context(), Claims{
				UserID: userID,
				Role:   employee.Role(role),
				Branch: branch,
				Token:  raw,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// CurrentUser returns the Claims stored by AuthRequired.
func CurrentUser(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	return c, ok
}
