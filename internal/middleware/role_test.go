package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirkhan/campus-lesson-tracker/internal/utils"
)

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("STUDENT")

	assert.Equal(t, http.StatusOK, runWithRole(t, mw, "STUDENT").Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, "INSTRUCTOR").Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, nil).Code, "no role in context")
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, 42).Code, "non-string role claim")
}

func TestRequireRoleMultiple(t *testing.T) {
	mw := RequireRole("INSTRUCTOR", "ADMIN")
	assert.Equal(t, http.StatusOK, runWithRole(t, mw, "INSTRUCTOR").Code)
	assert.Equal(t, http.StatusOK, runWithRole(t, mw, "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, "STUDENT").Code)
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	const secret = "test-secret"
	at, err := utils.NewAccessToken(secret, 7, "STUDENT", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRole interface{}
	h := JWTAuth(secret)(func(c echo.Context) error {
		gotRole = c.Get("role")
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "STUDENT", gotRole)
}

func TestJWTAuthRejects(t *testing.T) {
	mw := JWTAuth("test-secret")
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	t.Run("missing header", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", 7, "STUDENT", 5)
		require.NoError(t, err)
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+at.Token)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
