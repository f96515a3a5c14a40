package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/pkg/response"
)

type ReferralHandler struct {
	Svc    *application.ReferralService
	Apps   *application.ApplicationService
	Logger logrus.FieldLogger
}

func NewReferralHandler(svc *application.ReferralService, apps *application.ApplicationService, logger logrus.FieldLogger) *ReferralHandler {
	return &ReferralHandler{Svc: svc, Apps: apps, Logger: logger}
}

type referralRequest struct {
	CompanyName string    `json:"companyName" binding:"required,max=200"`
	JobTitle    string    `json:"jobTitle" binding:"required,max=200"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	Status      string    `json:"status" binding:"omitempty,oneof=active closed"`
}

func (r referralRequest) input() application.ReferralInput {
	return application.ReferralInput{
		CompanyName: r.CompanyName,
		JobTitle:    r.JobTitle,
		Description: r.Description,
		Location:    r.Location,
		Deadline:    r.Deadline,
		Status:      entity.ReferralStatus(r.Status),
	}
}

// List GET /referrals
func (h *ReferralHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	refs, err := h.Svc.List(c.Request.Context(), entity.ReferralFilter{
		PostedBy: c.Query("postedBy"),
		Status:   entity.ReferralStatus(c.Query("status")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toReferralViews(refs), "referrals", response.Meta{Limit: limit, Offset: offset, Count: len(refs)})
}

// Get GET /referrals/:id
func (h *ReferralHandler) Get(c *gin.Context) {
	r, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toReferralView(r), "referral", nil)
}

// Create POST /referrals
func (h *ReferralHandler) Create(c *gin.Context) {
	var req referralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), middleware.ActorFrom(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toReferralView(r), "referral created", nil)
}

// Update PUT /referrals/:id
func (h *ReferralHandler) Update(c *gin.Context) {
	var req referralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Svc.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toReferralView(r), "referral updated", nil)
}

// Delete DELETE /referrals/:id
func (h *ReferralHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": c.Param("id")}, "referral deleted", nil)
}

// Apply POST /referrals/:id/apply
func (h *ReferralHandler) Apply(c *gin.Context) {
	in, closeFn, ok := readApply(c)
	if !ok {
		return
	}
	defer closeFn()
	a, err := h.Apps.ApplyToReferral(c.Request.Context(), c.GetString(middleware.CtxAccountID), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toApplicationView(a), "application submitted", nil)
}

// Applications GET /referrals/:id/applications
func (h *ReferralHandler) Applications(c *gin.Context) {
	apps, err := h.Apps.ListForTarget(c.Request.Context(), middleware.ActorFrom(c), entity.ApplyToReferral, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplicationViews(apps), "applications", response.Meta{Count: len(apps)})
}
