package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	handlers "github.com/oksasatya/hireboard/internal/interface/http"
)

type JobModule struct {
	Handler *handlers.JobHandler
	Guard   Guard
}

func NewJobModule(h *handlers.JobHandler, g Guard) *JobModule {
	return &JobModule{Handler: h, Guard: g}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.GET("", m.Handler.List)
	jobs.GET("/search", m.Handler.Search)
	jobs.GET("/:id", m.Handler.Get)

	recruiter := m.Guard.As(entity.RoleRecruiter)
	jobs.POST("", chain(recruiter, m.Handler.Create)...)
	jobs.PUT("/:id", chain(recruiter, m.Handler.Update)...)
	jobs.DELETE("/:id", chain(recruiter, m.Handler.Delete)...)
	jobs.GET("/:id/applications", chain(recruiter, m.Handler.Applications)...)

	jobs.POST("/:id/apply", chain(m.Guard.As(entity.RoleJobSeeker), m.Handler.Apply)...)
}

type ReferralModule struct {
	Handler *handlers.ReferralHandler
	Guard   Guard
}

func NewReferralModule(h *handlers.ReferralHandler, g Guard) *ReferralModule {
	return &ReferralModule{Handler: h, Guard: g}
}

func (m *ReferralModule) Register(rg *gin.RouterGroup) {
	refs := rg.Group("/referrals")
	refs.GET("", m.Handler.List)
	refs.GET("/:id", m.Handler.Get)

	authed := m.Guard.Authed()
	refs.POST("", chain(authed, m.Handler.Create)...)
	refs.PUT("/:id", chain(authed, m.Handler.Update)...)
	refs.DELETE("/:id", chain(authed, m.Handler.Delete)...)
	refs.GET("/:id/applications", chain(authed, m.Handler.Applications)...)

	refs.POST("/:id/apply", chain(m.Guard.As(entity.RoleJobSeeker), m.Handler.Apply)...)
}

type ApplicationModule struct {
	Handler *handlers.ApplicationHandler
	Guard   Guard
}

func NewApplicationModule(h *handlers.ApplicationHandler, g Guard) *ApplicationModule {
	return &ApplicationModule{Handler: h, Guard: g}
}

func (m *ApplicationModule) Register(rg *gin.RouterGroup) {
	apps := rg.Group("/applications")
	user := m.Guard.As(entity.RoleJobSeeker)
	authed := m.Guard.Authed()

	apps.GET("/me", chain(user, m.Handler.Mine)...)
	apps.GET("/:id", chain(authed, m.Handler.Get)...)
	apps.PATCH("/:id/status", chain(authed, m.Handler.UpdateStatus)...)
	apps.DELETE("/:id", chain(user, m.Handler.Withdraw)...)
}
