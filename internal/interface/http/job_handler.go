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

type JobHandler struct {
	Svc    *application.JobService
	Apps   *application.ApplicationService
	Logger logrus.FieldLogger
}

func NewJobHandler(svc *application.JobService, apps *application.ApplicationService, logger logrus.FieldLogger) *JobHandler {
	return &JobHandler{Svc: svc, Apps: apps, Logger: logger}
}

type jobRequest struct {
	Title          string   `json:"title" binding:"required,max=200"`
	Description    string   `json:"description" binding:"required"`
	CompanyName    string   `json:"companyName" binding:"max=200"`
	Location       string   `json:"location" binding:"required"`
	EmploymentType string   `json:"employmentType" binding:"omitempty,emptype"`
	SalaryMin      int64    `json:"salaryMin" binding:"gte=0"`
	SalaryMax      int64    `json:"salaryMax" binding:"gte=0"`
	Skills         []string `json:"skills"`
	Status         string   `json:"status" binding:"omitempty,oneof=open closed"`
}

func (r jobRequest) input() application.JobInput {
	return application.JobInput{
		Title:          r.Title,
		Description:    r.Description,
		CompanyName:    r.CompanyName,
		Location:       r.Location,
		EmploymentType: entity.EmploymentType(r.EmploymentType),
		SalaryMin:      r.SalaryMin,
		SalaryMax:      r.SalaryMax,
		Skills:         r.Skills,
		Status:         entity.JobStatus(r.Status),
	}
}

// List GET /jobs
func (h *JobHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	status := entity.JobStatus(c.DefaultQuery("status", string(entity.JobOpen)))
	jobs, err := h.Svc.List(c.Request.Context(), entity.JobFilter{
		Query:          c.Query("q"),
		Location:       c.Query("location"),
		EmploymentType: entity.EmploymentType(c.Query("employmentType")),
		Status:         status,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobViews(jobs), "jobs", response.Meta{Limit: limit, Offset: offset, Count: len(jobs)})
}

// Search GET /jobs/search?q=
func (h *JobHandler) Search(c *gin.Context) {
	limit, offset := pageParams(c)
	jobs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobViews(jobs), "jobs", response.Meta{Limit: limit, Offset: offset, Count: len(jobs)})
}

// Get GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	j, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobView(j), "job", nil)
}

// Create POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	j, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxAccountID), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toJobView(j), "job created", nil)
}

// Update PUT /jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	j, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxAccountID), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toJobView(j), "job updated", nil)
}

// Delete DELETE /jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxAccountID), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": c.Param("id")}, "job deleted", nil)
}

// Apply POST /jobs/:id/apply
func (h *JobHandler) Apply(c *gin.Context) {
	in, closeFn, ok := readApply(c)
	if !ok {
		return
	}
	defer closeFn()
	a, err := h.Apps.ApplyToJob(c.Request.Context(), c.GetString(middleware.CtxAccountID), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toApplicationView(a), "application submitted", nil)
}

// Applications GET /jobs/:id/applications
func (h *JobHandler) Applications(c *gin.Context) {
	apps, err := h.Apps.ListForTarget(c.Request.Context(), middleware.ActorFrom(c), entity.ApplyToJob, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplicationViews(apps), "applications", response.Meta{Count: len(apps)})
}

type applyRequest struct {
	CoverLetter string `json:"coverLetter" form:"coverLetter" binding:"max=5000"`
}

// readApply accepts either a multipart form (optional "resume" file and
// "coverLetter") or a JSON body. It writes the error response itself.
func readApply(c *gin.Context) (application.ApplyInput, func(), bool) {
	noop := func() {}
	var req applyRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			bindError(c, err)
			return application.ApplyInput{}, noop, false
		}
		f, closeFn, err := formResume(c)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid resume upload", gin.H{"resume": err.Error()})
			return application.ApplyInput{}, noop, false
		}
		return application.ApplyInput{CoverLetter: req.CoverLetter, Resume: f}, closeFn, true
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return application.ApplyInput{}, noop, false
		}
	}
	return application.ApplyInput{CoverLetter: req.CoverLetter}, noop, true
}
