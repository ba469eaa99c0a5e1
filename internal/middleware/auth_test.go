package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ravencode_backend/internal/config"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}
	r := gin.New()
	g := r.Group("/api", AuthMiddleware(cfg))
	g.GET("/me", func(c *gin.Context) {
		util.Success(c, gin.H{"id": util.GetUserFromContext(c).UserID})
	})
	g.GET("/admin", RoleMiddleware(), func(c *gin.Context) { util.Success(c, nil) })
	return r
}

func tokenFor(t *testing.T, id uint, role model.UserRole, ttl time.Duration) string {
	t.Helper()
	u := &model.User{BaseModel: model.BaseModel{ID: id}, Role: role, Email: "u@example.com"}
	tok, err := util.GenerateJWT(u, secret, ttl)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/me", tokenFor(t, 1, model.Student, -time.Minute)).Code)

	w := do(r, "/api/me", tokenFor(t, 42, model.Student, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"message":"success","data":{"id":42}}`, w.Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusForbidden, do(r, "/api/admin", tokenFor(t, 1, model.Student, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/api/admin", tokenFor(t, 2, model.Admin, time.Hour)).Code)
}
