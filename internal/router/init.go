package router

import (
	"time"

	"github.com/oksasatya/hireboard/internal/container"
	handlers "github.com/oksasatya/hireboard/internal/interface/http"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/internal/router/modules"
)

// InitModules builds the handlers from the container and adds every feature
// module to the registry. Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	log := c.Logger
	guard := modules.Guard{
		Auth: middleware.Auth(c.AuthSvc, log),
		// softer per-account limit for everything behind a token
		Limit: middleware.RateLimit(c.Redis, 120, time.Minute, middleware.KeyByAccount(), nil),
	}

	r.Use(middleware.RateLimit(c.Redis, 300, time.Minute, middleware.KeyByIP(),
		middleware.AnyOf(middleware.AllowPaths(c.Cfg.APIPrefix+"/healthz"), middleware.AllowPrivateIP())))

	r.Add(modules.NewOpsModule(c.Redis, c.Cfg.DebugMetricsEnabled))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.AuthSvc, log), guard, c.Redis))
	r.Add(modules.NewJobSeekerModule(handlers.NewProfileHandler(c.ProfileSvc, c.JobSvc, log), guard))
	r.Add(modules.NewRecruiterModule(handlers.NewProfileHandler(c.ProfileSvc, c.JobSvc, log), guard))
	r.Add(modules.NewJobModule(handlers.NewJobHandler(c.JobSvc, c.ApplicationSvc, log), guard))
	r.Add(modules.NewReferralModule(handlers.NewReferralHandler(c.ReferralSvc, c.ApplicationSvc, log), guard))
	r.Add(modules.NewApplicationModule(handlers.NewApplicationHandler(c.ApplicationSvc, log), guard))
}
