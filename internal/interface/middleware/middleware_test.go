package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/domain/entity"
)

func init() { gin.SetMode(gin.TestMode) }

type stubAuthorizer map[string]*entity.Account

func (s stubAuthorizer) Authorize(_ context.Context, token string) (*entity.Account, error) {
	if token == "explode" {
		return nil, errors.New("db down")
	}
	if acc, ok := s[token]; ok {
		return acc, nil
	}
	return nil, application.ErrInvalidToken
}

func newAuthRouter() *gin.Engine {
	authz := stubAuthorizer{
		"seeker":    {ID: "a1", Role: entity.RoleJobSeeker, State: entity.StateVerified},
		"recruiter": {ID: "r1", Role: entity.RoleRecruiter, State: entity.StateVerified},
	}
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth(authz, nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxAccountID)+":"+string(RoleFrom(c)))
	})
	r.GET("/recruiters-only", Auth(authz, nil), RequireRole(entity.RoleRecruiter), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r http.Handler, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newAuthRouter()

	cases := []struct {
		header string
		code   int
		body   string
	}{
		{"", http.StatusUnauthorized, "no token"},
		{"Token seeker", http.StatusUnauthorized, "no token"},
		{"Bearer", http.StatusUnauthorized, "no token"},
		{"Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"Bearer explode", http.StatusInternalServerError, "internal server error"},
		{"bearer seeker", http.StatusOK, "a1:user"},
	}
	for _, tc := range cases {
		w := doGet(r, "/me", tc.header)
		assert.Equal(t, tc.code, w.Code, tc.header)
		assert.Contains(t, w.Body.String(), tc.body, tc.header)
	}
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter()
	assert.Equal(t, http.StatusForbidden, doGet(r, "/recruiters-only", "Bearer seeker").Code)
	assert.Equal(t, http.StatusNoContent, doGet(r, "/recruiters-only", "Bearer recruiter").Code)
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "0b7f9c1e-7d1c-4c52-9a51-1f1f5d6a2b10")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "0b7f9c1e-7d1c-4c52-9a51-1f1f5d6a2b10", w.Header().Get(HeaderRequestID))

	w = doGet(r, "/me", "")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), AllowPaths("/healthz")))
	r.GET("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.4")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, hit("/auth/login").Code)
	w := hit("/auth/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit("/auth/login")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit("/healthz").Code)
	}

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit("/auth/login").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := gin.New()
	r.Use(RateLimit(rdb, 1, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/", "").Code)
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("real_ip", "10.1.2.3")
	assert.True(t, allow(c))
	c.Set("real_ip", "203.0.113.7")
	assert.False(t, allow(c))
}

func TestRateLimit_KeyByJSONFieldSpansIPs(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, 2, 10*time.Minute, KeyByJSONField("email"), nil))
	r.POST("/auth/user/verify-and-complete", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(b))
	})

	post := func(ip, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/user/verify-and-complete", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	body := `{"email":"Jane@X.com","otp":"000000"}`
	w := post("198.51.100.1", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String(), "handler still sees the full body")

	require.Equal(t, http.StatusOK, post("198.51.100.2", `{"email":"jane@x.com","otp":"000001"}`).Code)
	w = post("198.51.100.3", `{"email":" jane@x.com ","otp":"000002"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "600", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, post("198.51.100.3", `{"email":"sam@x.com","otp":"000002"}`).Code)
	assert.Equal(t, http.StatusOK, post("198.51.100.3", `not json`).Code)
}
