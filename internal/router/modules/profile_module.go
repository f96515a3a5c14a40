package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	handlers "github.com/oksasatya/hireboard/internal/interface/http"
)

// JobSeekerModule serves /jobseekers.
type JobSeekerModule struct {
	Handler *handlers.ProfileHandler
	Guard   Guard
}

func NewJobSeekerModule(h *handlers.ProfileHandler, g Guard) *JobSeekerModule {
	return &JobSeekerModule{Handler: h, Guard: g}
}

func (m *JobSeekerModule) Register(rg *gin.RouterGroup) {
	js := rg.Group("/jobseekers")
	me := js.Group("/me", m.Guard.As(entity.RoleJobSeeker)...)
	{
		me.GET("", m.Handler.GetMyJobSeeker)
		me.PUT("", m.Handler.UpdateMyJobSeeker)
		me.POST("/resume", m.Handler.UploadResume)
	}
	js.GET("/:id", chain(m.Guard.As(entity.RoleRecruiter), m.Handler.GetJobSeeker)...)
}

// RecruiterModule serves /recruiters.
type RecruiterModule struct {
	Handler *handlers.ProfileHandler
	Guard   Guard
}

func NewRecruiterModule(h *handlers.ProfileHandler, g Guard) *RecruiterModule {
	return &RecruiterModule{Handler: h, Guard: g}
}

func (m *RecruiterModule) Register(rg *gin.RouterGroup) {
	rc := rg.Group("/recruiters")
	me := rc.Group("/me", m.Guard.As(entity.RoleRecruiter)...)
	{
		me.GET("", m.Handler.GetMyRecruiter)
		me.PUT("", m.Handler.UpdateMyRecruiter)
		me.GET("/jobs", m.Handler.MyJobs)
	}
	rc.GET("/:id", m.Handler.GetRecruiter)
}
