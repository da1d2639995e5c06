package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/munidigital/tramites-api/internal/models"
)

func protectedRouter(injectClaims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		if injectClaims != nil {
			c.Set(ContextUserKey, injectClaims)
		}
	}, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequireAdminWithoutClaims(t *testing.T) {
	recorder := httptest.NewRecorder()
	router := protectedRouter(nil)

	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED error code, got %s", recorder.Body.String())
	}
}

func TestRequireAdminRejectsOtherRoles(t *testing.T) {
	recorder := httptest.NewRecorder()
	router := protectedRouter(&models.JWTClaims{UserID: "u1", Username: "clerk", Role: models.UserRole("viewer")})

	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN error code, got %s", recorder.Body.String())
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	recorder := httptest.NewRecorder()
	router := protectedRouter(&models.JWTClaims{UserID: "u1", Username: "admin", Role: models.RoleAdmin})

	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
