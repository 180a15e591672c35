package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-call-verify/internal/domain"
	jwtinfra "github.com/go-call-verify/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func withRole(role string) context.Context {
	return WithClaims(context.Background(), &jwtinfra.Claims{Role: role})
}

func TestRequireRole_NoClaimsInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleOperator)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(withRole(domain.RoleDispatcher))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleOperator)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireRole_CorrectRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(withRole(domain.RoleOperator))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleOperator)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(withRole(domain.RoleDispatcher))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleOperator, domain.RoleDispatcher)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
