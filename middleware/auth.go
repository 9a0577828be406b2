package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/cuearena/tournament-engine/models"
)

type contextKey string

const userContextKey contextKey = "user_claims"

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

var (
	ErrNoClaims      = errors.New("user claims not found in context")
	ErrInvalidClaims = errors.New("invalid user claims")
)

// Authenticate validates the Bearer token issued by the identity service and
// stashes its claims in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the listed roles. Must run after Authenticate.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, ErrNoClaims
	}

	raw, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q claim", ErrInvalidClaims, jwtClaimUserID)
	}

	idFloat, ok := raw.(float64)
	if !ok || idFloat != float64(int(idFloat)) {
		return 0, fmt.Errorf("%w: %q claim is not an integer", ErrInvalidClaims, jwtClaimUserID)
	}
	id := int(idFloat)
	if id <= 0 {
		return 0, fmt.Errorf("%w: invalid user ID %d", ErrInvalidClaims, id)
	}
	return id, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoClaims
	}

	roleStr, ok := claims[jwtClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing %q claim", ErrInvalidClaims, jwtClaimRole)
	}

	role := models.UserRole(roleStr)
	switch role {
	case models.RolePlayer, models.RoleOrganizer, models.RoleSupport, models.RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidClaims, roleStr)
	}
}
