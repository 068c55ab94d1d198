package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	u := &model.User{Email: "u@example.com", Role: role}
	u.ID = id
	token, err := util.GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	r := gin.New()
	whoami := func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.String(http.StatusOK, string(claims.Role))
			return
		}
		c.String(http.StatusOK, "anonymous")
	}
	r.GET("/private", AuthMiddleware(testSecret), whoami)
	r.GET("/optional", TryAuthMiddleware(testSecret), whoami)
	r.GET("/teach", AuthMiddleware(testSecret), RoleMiddleware(model.Instructor), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
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

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "not-a-jwt").Code)

	w := do(r, "/private", tokenFor(t, 1, model.Student))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student", w.Body.String())

	// 查询参数里的 token 同样有效
	w = do(r, "/private?token="+tokenFor(t, 1, model.Student), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, "anonymous", do(r, "/optional", "").Body.String())
	assert.Equal(t, "anonymous", do(r, "/optional", "broken").Body.String())
	assert.Equal(t, "instructor", do(r, "/optional", tokenFor(t, 2, model.Instructor)).Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusForbidden, do(r, "/teach", tokenFor(t, 1, model.Student)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/teach", tokenFor(t, 2, model.Instructor)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/teach", tokenFor(t, 3, model.Admin)).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
