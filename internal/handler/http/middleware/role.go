package middleware

import (
	"fmt"
	"net/http"

	"github.com/sagana-hq/workforce-backend-go/internal/handler/http/response"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/jwt"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/permcache"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// RoleMiddleware gates routes by role. The permission cache is consulted
// before the token claim so a demotion takes effect within the cache TTL
// instead of the token lifetime; on a cache miss the claim is used and
// written back.
type RoleMiddleware struct {
	jwtService jwt.Service
	cache      *permcache.Cache
}

func NewRoleMiddleware(jwtService jwt.Service, cache *permcache.Cache) *RoleMiddleware {
	return &RoleMiddleware{
		jwtService: jwtService,
		cache:      cache,
	}
}

func (m *RoleMiddleware) resolveRole(r *http.Request) (string, error) {
	claims, err := m.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		return "", err
	}

	if m.cache != nil {
		role, ok, err := m.cache.GetRole(r.Context(), claims.UserID)
		if err == nil && ok {
			return role, nil
		}
		// On cache error fall through to the claim; authorization must not
		// depend on Redis availability.
		if err == nil && claims.Role != "" {
			_ = m.cache.SetRole(r.Context(), claims.UserID, claims.Role)
		}
	}

	return claims.Role, nil
}

// RequireAdmin requires the admin role
func (m *RoleMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := m.resolveRole(r)
		if err != nil {
			response.Unauthorized(w, "unauthorized")
			return
		}

		if role != RoleAdmin {
			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", RoleAdmin, role))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireManager requires manager or admin role
func (m *RoleMiddleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := m.resolveRole(r)
		if err != nil {
			response.Unauthorized(w, "unauthorized")
			return
		}

		if role != RoleManager && role != RoleAdmin {
			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", RoleManager, role))
			return
		}

		next.ServeHTTP(w, r)
	})
}
