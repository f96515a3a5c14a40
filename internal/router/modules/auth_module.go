package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/hireboard/internal/interface/http"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, g Guard, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Guard: g, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)
	// Caps code guesses per address across all IPs for the life of a code.
	otpGuessLimiter := middleware.RateLimit(m.Redis, 10, helpers.OTPTTL, middleware.KeyByJSONField("email"), nil)

	auth := rg.Group("/auth")
	auth.POST("/user/signup", signupLimiter, m.Handler.UserSignup)
	auth.POST("/user/verify-and-complete", verifyLimiter, otpGuessLimiter, m.Handler.UserVerifyAndComplete)
	auth.POST("/recruiter/signup", signupLimiter, m.Handler.RecruiterSignup)
	auth.POST("/recruiter/verify", verifyLimiter, otpGuessLimiter, m.Handler.RecruiterVerify)
	auth.POST("/login", loginLimiter, m.Handler.Login)

	auth.GET("/verify", chain(m.Guard.Authed(), m.Handler.Verify)...)
}
