package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(ContextUserID),
			"email":   c.GetString(ContextEmail),
			"role":    c.GetString(ContextRole),
		})
	})
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	r := newEngine(ValidateToken(testSecret))

	valid := signToken(t, testSecret, Claims{UserID: "u-1", Email: "u1@example.org"})
	bySubject := signToken(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-2"}, Role: "admin"})
	expired := signToken(t, testSecret, Claims{UserID: "u-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	foreign := signToken(t, "other-secret", Claims{UserID: "u-1"})
	anonymous := signToken(t, testSecret, Claims{})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "bearer token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: `"role":"member"`},
		{name: "raw token", header: valid, wantStatus: http.StatusOK, wantBody: `"user_id":"u-1"`},
		{name: "subject fallback", header: "Bearer " + bySubject, wantStatus: http.StatusOK, wantBody: `"role":"admin"`},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "no identity", header: "Bearer " + anonymous, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := map[string]string{}
			if tc.header != "" {
				header["Authorization"] = tc.header
			}
			w := serve(r, header)
			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantBody != "" {
				assert.Contains(t, w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine(OptionalToken(testSecret), RequireAdmin("s3cret"))

	member := signToken(t, testSecret, Claims{UserID: "u-1"})
	admin := signToken(t, testSecret, Claims{UserID: "boss", Role: "admin"})

	tests := []struct {
		name       string
		header     map[string]string
		wantStatus int
		wantUser   string
	}{
		{name: "anonymous", header: map[string]string{}, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: map[string]string{"X-API-KEY": "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "api key", header: map[string]string{"X-API-KEY": "s3cret"}, wantStatus: http.StatusOK, wantUser: APIKeyUserID},
		{name: "member token", header: map[string]string{"Authorization": "Bearer " + member}, wantStatus: http.StatusForbidden},
		{name: "member token with key", header: map[string]string{"Authorization": "Bearer " + member, "X-API-KEY": "s3cret"}, wantStatus: http.StatusOK, wantUser: "u-1"},
		{name: "admin token", header: map[string]string{"Authorization": "Bearer " + admin}, wantStatus: http.StatusOK, wantUser: "boss"},
		{name: "invalid token", header: map[string]string{"Authorization": "Bearer junk", "X-API-KEY": "s3cret"}, wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, tc.header)
			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantUser != "" {
				assert.Contains(t, w.Body.String(), `"user_id":"`+tc.wantUser+`"`)
				assert.Contains(t, w.Body.String(), `"role":"admin"`)
			}
		})
	}
}

func TestRequireAdmin_EmptyKeyDisablesHeader(t *testing.T) {
	r := newEngine(OptionalToken(testSecret), RequireAdmin(""))
	w := serve(r, map[string]string{"X-API-KEY": ""})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Request served", entries[0].Message)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusNoContent), entries[0].ContextMap()["status"])
	assert.Equal(t, "Request failed", entries[1].Message)
	assert.Equal(t, generated, entries[1].ContextMap()["request_id"])
}
