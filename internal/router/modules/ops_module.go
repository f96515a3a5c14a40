package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/pkg/response"
)

// OpsModule serves health and debug endpoints.
type OpsModule struct {
	Redis        *redis.Client
	DebugMetrics bool
}

func NewOpsModule(rdb *redis.Client, debugMetrics bool) *OpsModule {
	return &OpsModule{Redis: rdb, DebugMetrics: debugMetrics}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
	})

	if !m.DebugMetrics {
		return
	}
	// expvar, rate-limited per IP
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
