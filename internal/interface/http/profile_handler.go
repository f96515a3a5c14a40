package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/pkg/response"
)

// ProfileHandler serves /jobseekers and /recruiters.
type ProfileHandler struct {
	Svc    *application.ProfileService
	Jobs   *application.JobService
	Logger logrus.FieldLogger
}

func NewProfileHandler(svc *application.ProfileService, jobs *application.JobService, logger logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Jobs: jobs, Logger: logger}
}

// GetMyJobSeeker GET /jobseekers/me
func (h *ProfileHandler) GetMyJobSeeker(c *gin.Context) {
	acc, err := h.Svc.Get(c.Request.Context(), entity.RoleJobSeeker, c.GetString(middleware.CtxAccountID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobSeekerView(acc), "profile", nil)
}

// UpdateMyJobSeeker PUT /jobseekers/me
func (h *ProfileHandler) UpdateMyJobSeeker(c *gin.Context) {
	var req entity.JobSeekerProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	acc, err := h.Svc.UpdateJobSeeker(c.Request.Context(), c.GetString(middleware.CtxAccountID), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobSeekerView(acc), "profile updated", nil)
}

// UploadResume POST /jobseekers/me/resume (multipart field "resume")
func (h *ProfileHandler) UploadResume(c *gin.Context) {
	f, closeFn, err := formResume(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "resume file is required", gin.H{"resume": err.Error()})
		return
	}
	if f == nil {
		response.Error[any](c, http.StatusBadRequest, "resume file is required", nil)
		return
	}
	defer closeFn()
	url, err := h.Svc.UploadResume(c.Request.Context(), c.GetString(middleware.CtxAccountID), f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resumeUrl": url}, "resume uploaded", nil)
}

// GetJobSeeker GET /jobseekers/:id (recruiters reviewing applicants)
func (h *ProfileHandler) GetJobSeeker(c *gin.Context) {
	acc, err := h.Svc.Get(c.Request.Context(), entity.RoleJobSeeker, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobSeekerView(acc), "profile", nil)
}

// GetMyRecruiter GET /recruiters/me
func (h *ProfileHandler) GetMyRecruiter(c *gin.Context) {
	acc, err := h.Svc.Get(c.Request.Context(), entity.RoleRecruiter, c.GetString(middleware.CtxAccountID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecruiterView(acc), "profile", nil)
}

// UpdateMyRecruiter PUT /recruiters/me
func (h *ProfileHandler) UpdateMyRecruiter(c *gin.Context) {
	var req entity.RecruiterProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	acc, err := h.Svc.UpdateRecruiter(c.Request.Context(), c.GetString(middleware.CtxAccountID), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecruiterView(acc), "profile updated", nil)
}

// MyJobs GET /recruiters/me/jobs
func (h *ProfileHandler) MyJobs(c *gin.Context) {
	limit, offset := pageParams(c)
	jobs, err := h.Jobs.List(c.Request.Context(), entity.JobFilter{
		RecruiterID: c.GetString(middleware.CtxAccountID),
		Status:      entity.JobStatus(c.Query("status")),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobViews(jobs), "jobs", response.Meta{Limit: limit, Offset: offset, Count: len(jobs)})
}

// GetRecruiter GET /recruiters/:id (public company card)
func (h *ProfileHandler) GetRecruiter(c *gin.Context) {
	acc, err := h.Svc.Get(c.Request.Context(), entity.RoleRecruiter, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecruiterCard(acc), "recruiter", nil)
}
